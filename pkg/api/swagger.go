package api

import (
	"net/http"

	"github.com/swaggo/swag"
)

const swaggerTemplate = `{
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
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/headers/decode": {
            "post": {
                "tags": ["headers"],
                "summary": "Decode a raw header record",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}],
                "responses": {
                    "200": {"description": "Decoded header", "schema": {"$ref": "#/definitions/HeaderResponse"}},
                    "413": {"description": "Record exceeds size limit"},
                    "422": {"description": "Malformed header record"}
                }
            }
        },
        "/headers": {
            "get": {
                "tags": ["archive"],
                "summary": "List archived header ids",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Archived ids in creation order"}}
            },
            "post": {
                "tags": ["archive"],
                "summary": "Decode and archive a raw header record",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}],
                "responses": {
                    "201": {"description": "Archived header", "schema": {"$ref": "#/definitions/ArchivedHeaderResponse"}},
                    "413": {"description": "Record exceeds size limit"},
                    "422": {"description": "Malformed header record"}
                }
            }
        },
        "/headers/{id}": {
            "get": {
                "tags": ["archive"],
                "summary": "Get a decoded archived header",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Archived header", "schema": {"$ref": "#/definitions/ArchivedHeaderResponse"}},
                    "400": {"description": "Invalid id"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["archive"],
                "summary": "Delete an archived header",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/headers/{id}/raw": {
            "get": {
                "tags": ["archive"],
                "summary": "Get the raw bytes of an archived header",
                "produces": ["application/octet-stream"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Raw header record"}, "404": {"description": "Not found"}}
            }
        }
    },
    "definitions": {
        "HeaderResponse": {
            "type": "object",
            "properties": {
                "channels": {"type": "integer"},
                "samples": {"type": "integer"},
                "events": {"type": "integer"},
                "sample_rate": {"type": "number"},
                "data_type": {"type": "integer"},
                "data_type_name": {"type": "string"},
                "labels": {"type": "array", "items": {"type": "string", "x-nullable": true}}
            }
        },
        "ArchivedHeaderResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "size": {"type": "integer"},
                "header": {"$ref": "#/definitions/HeaderResponse"}
            }
        }
    }
}`

// SwaggerInfo holds the exported Swagger metadata of the header API
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ftbuffer API",
	Description:      "Decodes and archives FieldTrip realtime buffer header records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// handleSwagger serves the generated Swagger document
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		s.logger.WithError(err).Error("failed to generate swagger doc")
		http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
