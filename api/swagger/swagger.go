package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Allocation API",
        "description": "Greedy randomized timetable generation with faculty projections and file exports",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable generation and views"},
        {"name": "Exports", "description": "Asynchronous file exports"}
    ],
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/timetables": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate timetable options from a configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch one option of a stored timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "option", "in": "query", "type": "integer"},
                    {"name": "view", "in": "query", "type": "string", "enum": ["student", "faculty"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/tables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch display tables for one option",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "option", "in": "query", "type": "integer"},
                    {"name": "view", "in": "query", "type": "string", "enum": ["student", "faculty"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/regenerate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Reshuffle a stored timetable under a fresh seed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RegenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export of one timetable option",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/{jobId}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Fetch the state of an export job",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "400": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Interval": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "10:00"}
            },
            "required": ["start", "end"]
        },
        "Subject": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "classesPerWeek": {"type": "integer"}
            },
            "required": ["name"]
        },
        "Faculty": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "subject": {"type": "string"},
                "unavailableDays": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["name", "subject"]
        },
        "SpecialClass": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "day": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "batch": {"type": "string"}
            },
            "required": ["subject", "day", "start", "end", "batch"]
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "string"}},
                "periods": {"type": "object", "additionalProperties": {"$ref": "#/definitions/Interval"}},
                "breaks": {"type": "array", "items": {"$ref": "#/definitions/Interval"}},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}},
                "faculties": {"type": "array", "items": {"$ref": "#/definitions/Faculty"}},
                "rooms": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}},
                "batches": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}},
                "specialClasses": {"type": "array", "items": {"$ref": "#/definitions/SpecialClass"}},
                "maxClassesPerDay": {"type": "integer"},
                "options": {"type": "integer"},
                "seed": {"type": "integer"}
            }
        },
        "RegenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "options": {"type": "integer"},
                "seed": {"type": "integer"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "properties": {
                "option": {"type": "integer"},
                "view": {"type": "string", "enum": ["student", "faculty"]},
                "format": {"type": "string", "enum": ["xlsx", "csv", "pdf"]}
            },
            "required": ["view", "format"]
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
