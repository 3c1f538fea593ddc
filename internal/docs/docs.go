// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/assumptions/presets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["forecasts"],
                "summary": "Get assumption presets",
                "parameters": [
                    {"type": "string", "description": "Analysis mode (cash-flow/equity)", "name": "mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Presets"},
                    "400": {"description": "Invalid mode", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/forecasts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forecasts"],
                "summary": "Generate a forecast",
                "parameters": [
                    {"description": "Property, assumptions and holding period", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Forecast and metrics"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/forecasts/sensitivity": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forecasts"],
                "summary": "Run a sensitivity analysis",
                "parameters": [
                    {"description": "Forecast inputs, fields and delta", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Scenario results"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/portfolio/summary": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Summarize a portfolio",
                "parameters": [
                    {"description": "Property snapshots", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Portfolio summary"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/scenarios": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Get scenarios",
                "parameters": [
                    {"type": "string", "description": "Filter by property", "name": "property_id", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20, max 100)", "name": "page_size", "in": "query"},
                    {"type": "string", "description": "newest, oldest or name (default newest)", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated scenarios"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Save a scenario",
                "parameters": [
                    {"description": "Scenario name and forecast inputs", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Scenario saved"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/scenarios/baseline/compare": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Compare with baseline",
                "parameters": [
                    {"description": "Live forecast inputs", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Comparison"},
                    "404": {"description": "No baseline pinned", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/scenarios/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Get a scenario",
                "parameters": [
                    {"type": "string", "description": "Scenario ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Scenario"},
                    "404": {"description": "Scenario not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/scenarios/{id}/baseline": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Pin a baseline",
                "parameters": [
                    {"type": "string", "description": "Scenario ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Baseline pinned"},
                    "404": {"description": "Scenario not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/properties/{property_id}/baseline": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["scenarios"],
                "summary": "Unpin a baseline",
                "parameters": [
                    {"type": "string", "description": "Property ID", "name": "property_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Baseline unpinned", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "No baseline pinned", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Propvest API",
	Description:      "Propvest forecasts rental properties year by year over a holding period and computes their investment return metrics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
