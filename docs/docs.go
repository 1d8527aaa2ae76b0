// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `go generate ./cmd` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/auth/sign-up": {"post": {"tags": ["auth"], "summary": "Register a user", "consumes": ["application/json"], "responses": {"200": {"description": "id"}, "400": {"description": "bad request"}}}},
        "/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Obtain a bearer token", "consumes": ["application/json"], "responses": {"200": {"description": "token"}, "401": {"description": "invalid credentials"}}}},
        "/api/v1/datasets": {"get": {"tags": ["datasets"], "summary": "List bundled datasets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "count, datasets"}}}},
        "/api/v1/datasets/{name}/analyze": {"post": {"tags": ["datasets"], "summary": "Analyze a bundled dataset", "security": [{"BearerAuth": []}],
            "parameters": [
                {"type": "string", "name": "name", "in": "path", "required": true},
                {"type": "string", "enum": ["drop", "flag", "clip"], "name": "policy", "in": "query"},
                {"type": "string", "name": "limit", "in": "query"}
            ],
            "responses": {"200": {"description": "run, aggregates"}, "400": {"description": "malformed input"}, "404": {"description": "dataset not found"}, "422": {"description": "schema mismatch"}}}},
        "/api/v1/datasets/upload": {"post": {"tags": ["datasets"], "summary": "Analyze an uploaded file", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"],
            "parameters": [
                {"type": "file", "name": "file", "in": "formData", "required": true},
                {"type": "string", "enum": ["drop", "flag", "clip"], "name": "policy", "in": "query"},
                {"type": "string", "name": "limit", "in": "query"}
            ],
            "responses": {"200": {"description": "run, aggregates"}, "400": {"description": "malformed input"}, "413": {"description": "upload too large"}, "422": {"description": "schema mismatch"}}}},
        "/api/v1/datasets/compare": {"post": {"tags": ["datasets"], "summary": "Compare all bundled datasets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "count, sites"}}}},
        "/api/v1/runs": {"get": {"tags": ["runs"], "summary": "List analysis runs", "security": [{"BearerAuth": []}],
            "parameters": [
                {"type": "string", "name": "from", "in": "query"},
                {"type": "string", "name": "to", "in": "query"},
                {"type": "string", "name": "dataset", "in": "query"}
            ],
            "responses": {"200": {"description": "count, runs"}, "400": {"description": "invalid range"}}}},
        "/api/v1/runs/{id}": {"get": {"tags": ["runs"], "summary": "Get one run", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "run"}, "404": {"description": "run not found"}}}},
        "/api/v1/runs/{id}/export": {"get": {"tags": ["runs"], "summary": "Export a run as XLSX", "security": [{"BearerAuth": []}], "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "workbook"}, "404": {"description": "run not found"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Solar EDA API",
	Description:      "Data-quality analysis of solar irradiance site files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
