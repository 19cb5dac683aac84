// Package docs registers the governance API document served at /swagger/.
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
    "security": [{"BearerAuth": []}],
    "paths": {
        "/api/v1/proposals": {
            "get": {
                "summary": "List visible proposals, newest first",
                "parameters": [
                    {"name": "building_id", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListProposalsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "summary": "Create a proposal",
                "parameters": [
                    {"name": "Idempotency-Key", "in": "header", "type": "string", "required": false},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProposalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Proposal"}},
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/Proposal"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Idempotency conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Invalid proposal", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/proposals/{proposal_id}": {
            "get": {
                "summary": "Proposal with counts, caller vote, eligibility and result",
                "parameters": [
                    {"name": "proposal_id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProposalDetail"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/proposals/{proposal_id}/vote": {
            "post": {
                "summary": "Cast or replace the caller's vote",
                "parameters": [
                    {"name": "proposal_id", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CastVoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/CastVoteResponse"}},
                    "400": {"description": "Invalid choice", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "403": {"description": "Not eligible", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Proposal not open", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/v1/proposals/{proposal_id}/tally": {
            "post": {
                "summary": "Tally votes and record the result",
                "parameters": [
                    {"name": "proposal_id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Tallied", "schema": {"$ref": "#/definitions/TallyResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "CreateProposalRequest": {
            "type": "object",
            "required": ["title", "start_time", "end_time", "voting_method", "eligible_roles"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "building_id": {"type": "string"},
                "start_time": {"type": "string", "description": "RFC 3339, or YYYY-MM-DDTHH:MM read as UTC", "example": "2026-01-20T10:00"},
                "end_time": {"type": "string", "description": "RFC 3339, or YYYY-MM-DDTHH:MM read as UTC", "example": "2026-01-27T10:00"},
                "voting_method": {"type": "string", "enum": ["SimpleMajority", "WeightedArea", "PerSeat", "Consensus"]},
                "eligible_roles": {"type": "array", "items": {"type": "string", "enum": ["Admin", "Manager", "Homeowner", "Renter", "HOA Member"]}}
            }
        },
        "Proposal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "created_by": {"type": "string"},
                "building_id": {"type": "string"},
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "voting_method": {"type": "string"},
                "eligible_roles": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "enum": ["Scheduled", "Open", "Closed", "Tallied"]},
                "created_at": {"type": "string", "format": "date-time"},
                "replayed": {"type": "boolean"}
            }
        },
        "ListProposalsResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/Proposal"}}}
        },
        "VoteCounts": {
            "type": "object",
            "properties": {
                "yes": {"type": "integer"},
                "no": {"type": "integer"},
                "abstain": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "Result": {
            "type": "object",
            "properties": {
                "passed": {"type": "boolean"},
                "yes_weight": {"type": "string"},
                "no_weight": {"type": "string"},
                "abstain_weight": {"type": "string"},
                "total_weight": {"type": "string"},
                "tallied_at": {"type": "string", "format": "date-time"},
                "method_applied_version": {"type": "string"}
            }
        },
        "ProposalDetail": {
            "type": "object",
            "properties": {
                "proposal": {"$ref": "#/definitions/Proposal"},
                "votes": {"$ref": "#/definitions/VoteCounts"},
                "user_vote": {"type": "string"},
                "user_eligible": {"type": "boolean"},
                "result": {"$ref": "#/definitions/Result"}
            }
        },
        "CastVoteRequest": {
            "type": "object",
            "required": ["choice"],
            "properties": {"choice": {"type": "string", "enum": ["Yes", "No", "Abstain"]}}
        },
        "CastVoteResponse": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "vote_id": {"type": "string"},
                "choice": {"type": "string"},
                "weight": {"type": "string"},
                "was_update": {"type": "boolean"}
            }
        },
        "TallyResponse": {
            "type": "object",
            "properties": {
                "proposal_id": {"type": "string"},
                "passed": {"type": "boolean"},
                "summary": {"$ref": "#/definitions/Result"},
                "votes": {"$ref": "#/definitions/VoteCounts"}
            }
        }
    }
}`

// SwaggerInfo holds exported document metadata.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "House Governance API",
	Description:      "Proposals, weighted voting and tallying for residential buildings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
