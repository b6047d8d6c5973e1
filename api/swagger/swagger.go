package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollment Status API",
        "description": "Read-only classification of students as New/Continue/Return per academic term",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Enrollment Status", "description": "New/Continue/Return classification"},
        {"name": "Terms", "description": "Institution calendar"}
    ],
    "paths": {
        "/students/{studentId}/enrollment-status": {
            "get": {
                "tags": ["Enrollment Status"],
                "summary": "Classify a student's enrollment history for a term",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "integer"},
                    {"name": "year", "in": "query", "required": true, "type": "string"},
                    {"name": "term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed year/term/student identifiers"},
                    "404": {"description": "Queried term not in calendar"}
                }
            }
        },
        "/terms": {
            "get": {
                "tags": ["Terms"],
                "summary": "List calendar terms",
                "parameters": [
                    {"name": "year", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{year}/{term}": {
            "get": {
                "tags": ["Terms"],
                "summary": "Get one calendar term",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "string"},
                    {"name": "term", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Term not in calendar"}
                }
            }
        }
    },
    "definitions": {
        "EnrollmentStatus": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "year_code": {"type": "string"},
                "term_code": {"type": "string"},
                "category": {"type": "string", "enum": ["N", "C", "R"]}
            }
        },
        "Term": {
            "type": "object",
            "properties": {
                "year_code": {"type": "string"},
                "term_code": {"type": "string"},
                "begin_date": {"type": "string"},
                "end_date": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
