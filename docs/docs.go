// Package docs serves the OpenAPI description of the /v1 API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "client_id", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "from", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "to", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "boolean", "name": "include_deleted", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order with its items",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get an order with its items", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["orders"], "summary": "Replace an order header and item set", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["orders"], "summary": "Soft-delete an order and its dependents", "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}/status": {
            "put": {"tags": ["orders"], "summary": "Transition an order", "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid transition"}}}
        },
        "/orders/{id}/payments": {
            "get": {"tags": ["payments"], "summary": "List payments of an order", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["payments"], "summary": "Record a payment", "responses": {"201": {"description": "Created"}, "422": {"description": "Overpayment"}}}
        },
        "/orders/{id}/summary": {
            "get": {"tags": ["payments"], "summary": "Financial summary of an order", "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}/audit": {
            "get": {"tags": ["audit"], "summary": "Audit history of an order", "responses": {"200": {"description": "OK"}}}
        },
        "/payments/{id}": {
            "delete": {"tags": ["payments"], "summary": "Soft-delete a payment", "responses": {"200": {"description": "OK"}}}
        },
        "/order-items/{id}": {
            "put": {"tags": ["orders"], "summary": "Update one order item", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["orders"], "summary": "Soft-delete one order item", "responses": {"200": {"description": "OK"}}}
        },
        "/order-items/{id}/rental": {
            "put": {"tags": ["rentals"], "summary": "Create or update the rental of an item", "responses": {"200": {"description": "OK"}}}
        },
        "/rentals/{id}": {
            "delete": {"tags": ["rentals"], "summary": "Soft-delete a rental and its costs", "responses": {"200": {"description": "OK"}}}
        },
        "/rentals/{id}/return": {
            "post": {"tags": ["rentals"], "summary": "Record a rental return", "responses": {"200": {"description": "OK"}}}
        },
        "/rentals/{id}/costs": {
            "get": {"tags": ["rentals"], "summary": "List rental costs", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["rentals"], "summary": "Add a rental cost", "responses": {"201": {"description": "Created"}}}
        },
        "/rental-costs/types": {
            "get": {"tags": ["rentals"], "summary": "Suggested rental cost types", "responses": {"200": {"description": "OK"}}}
        },
        "/rental-costs/{id}": {
            "delete": {"tags": ["rentals"], "summary": "Soft-delete a rental cost", "responses": {"200": {"description": "OK"}}}
        },
        "/audit": {
            "get": {"tags": ["audit"], "summary": "Query the audit trail", "responses": {"200": {"description": "OK"}}}
        },
        "/audit/exports/{date}": {
            "get": {"tags": ["audit"], "summary": "Presigned URL of a daily export", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["audit"], "summary": "Export one day of the audit trail", "responses": {"201": {"description": "Created"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "orderdesk API",
	Description:      "Order lifecycle, payments and rentals for an event rental business.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
