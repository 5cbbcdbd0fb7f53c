// Package docs registers the OpenAPI document for the poultrydx HTTP API.
// Regenerate with `swag init -g cmd/poultrydx/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "poultrydx maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/diagnose": {
            "post": {
                "description": "Forwards the payload to the configured webhook once and returns the interpreted reply and its rendered view.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["diagnose"],
                "summary": "Submit symptoms for diagnosis",
                "parameters": [
                    {
                        "description": "Species, age in weeks and symptoms",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/submit.Input"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DiagnoseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "submit.Input": {
            "type": "object",
            "properties": {
                "species": {"type": "string", "example": "chicken"},
                "age_weeks": {"type": "integer", "example": 10},
                "symptoms": {"type": "string", "example": "coughing, watery diarrhea"}
            }
        },
        "types.Remedy": {
            "type": "object",
            "properties": {
                "immediate_steps": {"type": "array", "items": {"type": "string"}},
                "treatment_plan": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.DiagnosisResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "structured"},
                "diagnosis": {"type": "string", "example": "Coccidiosis"},
                "confidence": {"type": "string", "example": "high"},
                "risk_level": {"type": "string", "example": "medium"},
                "remedy": {"$ref": "#/definitions/types.Remedy"},
                "red_flags": {"type": "array", "items": {"type": "string"}},
                "references": {"type": "array", "items": {"type": "string"}},
                "raw_text": {"type": "string"}
            }
        },
        "types.Section": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Immediate Steps"},
                "lines": {"type": "array", "items": {"type": "string"}},
                "items": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.View": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "structured"},
                "success": {"type": "string"},
                "warning": {"type": "string"},
                "code": {"type": "string"},
                "hint": {"type": "string"},
                "sections": {"type": "array", "items": {"$ref": "#/definitions/types.Section"}}
            }
        },
        "types.DiagnoseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string", "example": "success_structured"},
                "response": {"$ref": "#/definitions/types.DiagnosisResponse"},
                "view": {"$ref": "#/definitions/types.View"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "poultrydx API",
	Description:      "Poultry symptom checker: forwards form input to a diagnosis webhook and renders the reply.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
