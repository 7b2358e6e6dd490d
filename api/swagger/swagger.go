package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tullu Dimtu School API",
        "description": "School administration backend with a realtime announcement channel",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Announcements", "description": "Live announcement board and read tracking"},
        {"name": "Auth", "description": "Staff authentication"},
        {"name": "Teachers", "description": "Staff directory"},
        {"name": "Admissions", "description": "Enrollment applications"},
        {"name": "Visits", "description": "Campus visit bookings"},
        {"name": "Registrations", "description": "Program registrations"},
        {"name": "Posts", "description": "News and blog posts"},
        {"name": "Materials", "description": "Study material library"},
        {"name": "Concerns", "description": "Student counselling submissions"},
        {"name": "Exports", "description": "CSV and PDF exports"},
        {"name": "Uploads", "description": "Image uploads"},
        {"name": "Health", "description": "Probes"}
    ],
    "paths": {
        "/api/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Service health and live announcement counters",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements, most recent first",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Publish an announcement",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing title or message"}
                }
            },
            "delete": {
                "tags": ["Announcements"],
                "summary": "Delete every announcement",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/announcements/stats": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Read statistics per announcement",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Realtime announcement channel (websocket upgrade)",
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Tullu Dimtu School API",
	Description:      "School administration backend with a realtime announcement channel",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
