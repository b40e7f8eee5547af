package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student ID Card Portal API",
        "description": "Admin backend for student ID card requests",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Administrator login"},
        {"name": "Students", "description": "Public request intake"},
        {"name": "Applications", "description": "Public approved archive"},
        {"name": "Admin", "description": "Authenticated review surface"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/students": {
            "post": {
                "tags": ["Students"],
                "summary": "Submit an ID card request",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "firstName", "in": "formData", "required": true, "type": "string"},
                    {"name": "lastName", "in": "formData", "type": "string"},
                    {"name": "email", "in": "formData", "required": true, "type": "string"},
                    {"name": "program", "in": "formData", "required": true, "type": "string"},
                    {"name": "studentId", "in": "formData", "type": "string"},
                    {"name": "cardType", "in": "formData", "type": "string"},
                    {"name": "requestType", "in": "formData", "type": "string"},
                    {"name": "photo", "in": "formData", "type": "file"},
                    {"name": "gdCopy", "in": "formData", "type": "file"},
                    {"name": "oldIdImage", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StudentRequest"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List approved applications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ApplicationsResponse"}}
                }
            }
        },
        "/api/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin dashboard",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/admin/requests": {
            "get": {
                "tags": ["Admin"],
                "summary": "List student requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/StudentRequest"}}}
                }
            }
        },
        "/api/admin/application/{id}/action": {
            "post": {
                "tags": ["Admin"],
                "summary": "Decide on a request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ActionResponse"}},
                    "400": {"description": "Invalid action", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/admin/applications/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export approved applications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/api/admin/documents/download": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download a request document",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "admin": {"$ref": "#/definitions/AdminInfo"}
            }
        },
        "AdminInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "cardType": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "program": {"type": "string"},
                "requestType": {"type": "string"},
                "photo": {"type": "string"},
                "gdCopy": {"type": "string"},
                "oldIdImage": {"type": "string"},
                "documents": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "rejectionReason": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "ApprovedApplication": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "cardType": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "program": {"type": "string"},
                "requestType": {"type": "string"},
                "photo": {"type": "string"},
                "gdCopy": {"type": "string"},
                "oldIdImage": {"type": "string"},
                "documents": {"type": "array", "items": {"type": "string"}},
                "approvedAt": {"type": "string"}
            }
        },
        "DocumentLink": {
            "type": "object",
            "properties": {
                "slot": {"type": "string"},
                "reference": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "PendingApplication": {
            "allOf": [
                {"$ref": "#/definitions/StudentRequest"},
                {
                    "type": "object",
                    "properties": {
                        "documentLinks": {"type": "array", "items": {"$ref": "#/definitions/DocumentLink"}}
                    }
                }
            ]
        },
        "DashboardResponse": {
            "type": "object",
            "properties": {
                "pendingApplications": {"type": "array", "items": {"$ref": "#/definitions/PendingApplication"}},
                "recentApproved": {"type": "array", "items": {"$ref": "#/definitions/ApprovedApplication"}}
            }
        },
        "ApplicationsResponse": {
            "type": "object",
            "properties": {
                "applications": {"type": "array", "items": {"$ref": "#/definitions/ApprovedApplication"}}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject"]},
                "reason": {"type": "string"}
            },
            "required": ["action"]
        },
        "ActionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
