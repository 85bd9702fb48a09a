//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"
	httpSwagger "github.com/swaggo/http-swagger"
)

// apiDoc is the OpenAPI description served at /swagger/doc.json.
const apiDoc = `{
  "swagger": "2.0",
  "info": {"title": "{{.Title}}", "version": "{{.Version}}", "description": "{{escape .Description}}"},
  "basePath": "{{.BasePath}}",
  "paths": {
    "/v1/call": {
      "post": {
        "summary": "Invoke a bridge method",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MethodCall"}}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/MethodResult"}},
          "400": {"description": "INVALID_ARGUMENT", "schema": {"$ref": "#/definitions/MethodErrorResponse"}},
          "404": {"description": "NOT_IMPLEMENTED", "schema": {"$ref": "#/definitions/MethodErrorResponse"}},
          "409": {"description": "NO_MODEL", "schema": {"$ref": "#/definitions/MethodErrorResponse"}}
        }
      }
    },
    "/v1/events": {
      "get": {
        "summary": "Subscribe to generation events",
        "produces": ["text/event-stream"],
        "responses": {"200": {"description": "event stream"}}
      }
    }
  },
  "definitions": {
    "MethodCall": {"type": "object", "properties": {"method": {"type": "string"}, "arguments": {"type": "object"}}},
    "MethodResult": {"type": "object", "properties": {"result": {}}},
    "MethodErrorResponse": {"type": "object", "properties": {"error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}}}
  }
}`

func init() {
	swag.Register(swag.Name, &swag.Spec{
		Version:          "1.0",
		BasePath:         "/",
		Title:            "llmbridge API",
		Description:      "Method-call surface and event stream for on-device LLM inference.",
		InfoInstanceName: swag.Name,
		SwaggerTemplate:  apiDoc,
		LeftDelim:        "{{",
		RightDelim:       "}}",
	})
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
