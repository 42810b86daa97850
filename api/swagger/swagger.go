package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Resource Planner API",
        "description": "Resource planning and HR administration backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Authentication", "description": "Login and session"},
        {"name": "Tables", "description": "Filtered, ordered and paginated listings of every resource"},
        {"name": "Reviews", "description": "Approval workflow of HR records"},
        {"name": "Early close", "description": "Closing a control week before its end"},
        {"name": "Planning", "description": "Weekly hours heatmap"},
        {"name": "Documents", "description": "Support document storage"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{resource}/table": {
            "post": {
                "tags": ["Tables"],
                "summary": "List rows of a resource",
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/TableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TableResult"}},
                    "400": {"description": "Unknown column or invalid paging", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{resource}/table/export": {
            "post": {
                "tags": ["Tables"],
                "summary": "Export rows of a resource",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/TableRequest"}}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/{resource}/{id}/review": {
            "put": {
                "tags": ["Reviews"],
                "summary": "Approve or reject a record",
                "parameters": [
                    {"name": "resource", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Observations missing on rejection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Notification failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/early-close-requests": {
            "post": {
                "tags": ["Early close"],
                "summary": "Ask to close the open control week early",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEarlyCloseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No open week or request already pending", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Notification failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/early-close-requests/{id}/review": {
            "put": {
                "tags": ["Early close"],
                "summary": "Approve or reject an early-close request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Outcome applied, notification failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/heatmap": {
            "get": {
                "tags": ["Planning"],
                "summary": "Weekly assigned hours per person",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "person_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/documents": {
            "post": {
                "tags": ["Documents"],
                "summary": "Upload a support document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "person_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "kind", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/documents/{id}/download": {
            "get": {
                "tags": ["Documents"],
                "summary": "Download document content",
                "security": [],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "TableRequest": {
            "type": "object",
            "properties": {
                "order": {"type": "object", "additionalProperties": {"type": "string", "enum": ["asc", "desc"]}},
                "page": {"type": "integer"},
                "rows": {"type": "integer", "x-nullable": true},
                "search": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "TableResult": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "data": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ReviewDecisionRequest": {
            "type": "object",
            "properties": {
                "approved": {"type": "boolean"},
                "observations": {"type": "string"}
            },
            "required": ["approved"]
        },
        "CreateEarlyCloseRequest": {
            "type": "object",
            "properties": {
                "person_id": {"type": "string"},
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "message": {"type": "string"},
                "meta": {"type": "object"}
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
