// Package docs registers the OpenAPI description served under /swagger/.
// Regenerate with `swag init -g cmd/remix-service/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/video-insert/upload-urls": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Issue one presigned PUT URL per file, valid for 5 minutes. The response is in request order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["video-insert"],
                "summary": "Request upload URLs",
                "parameters": [
                    {
                        "description": "Files to upload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/videos.UploadURLsRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Upload URLs generated successfully",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/videos.UploadGrantResponse"}}
                    },
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Object storage unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/video-insert/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Persist a video from uploaded object keys. With parent_video_id the video is a remix one level below its parent.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["video-insert"],
                "summary": "Complete an upload",
                "parameters": [
                    {
                        "description": "Uploaded keys",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/videos.CompleteUploadRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Video created successfully", "schema": {"$ref": "#/definitions/types.VideoRecord"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Parent video not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/videos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get a video",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Video retrieved successfully", "schema": {"$ref": "#/definitions/types.VideoRecord"}},
                    "404": {"description": "Video not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/videos/{id}/parent": {
            "get": {
                "description": "data is null when the video is a root.",
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get parent info",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Parent retrieved successfully", "schema": {"$ref": "#/definitions/types.ParentInfo"}},
                    "404": {"description": "Video not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Lineage inconsistent", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/videos/{id}/lineage": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get lineage",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {
                        "description": "Lineage retrieved successfully",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Ancestor"}}
                    },
                    "404": {"description": "Video not found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Lineage inconsistent", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Object storage unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/videos/{id}/remixes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List remixes",
                "parameters": [{"type": "string", "description": "Video ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {
                        "description": "Remixes retrieved successfully",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/types.VideoRecord"}}
                    },
                    "404": {"description": "Video not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Register a new user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate a user and return JWT token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"description": "User login details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "User authenticated successfully with token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "upload.FileRequest": {
            "type": "object",
            "required": ["fileType", "purpose"],
            "properties": {
                "fileType": {"type": "string", "example": "video/mp4"},
                "purpose": {"type": "string", "enum": ["RESULT_VIDEO", "THUMBNAIL", "SOURCE_VIDEO"]}
            }
        },
        "videos.UploadURLsRequest": {
            "type": "object",
            "required": ["files"],
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/upload.FileRequest"}}
            }
        },
        "videos.UploadGrantResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "url": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "videos.CompleteUploadRequest": {
            "type": "object",
            "required": ["video_key", "thumbnail_key"],
            "properties": {
                "video_key": {"type": "string"},
                "thumbnail_key": {"type": "string"},
                "source_video_key": {"type": "string"},
                "parent_video_id": {"type": "string"},
                "depth": {"type": "integer"}
            }
        },
        "types.VideoRecord": {
            "type": "object",
            "properties": {
                "video_id": {"type": "string"},
                "user_id": {"type": "string"},
                "parent_video_id": {"type": "string"},
                "depth": {"type": "integer"},
                "source_video_url": {"type": "string"},
                "results_video_url": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "like_count": {"type": "integer"},
                "comment_count": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "types.ParentInfo": {
            "type": "object",
            "properties": {
                "parent_video_id": {"type": "string"},
                "depth": {"type": "integer"},
                "source_video_presigned_url": {"type": "string"}
            }
        },
        "types.Ancestor": {
            "type": "object",
            "properties": {
                "video_id": {"type": "string"},
                "user_id": {"type": "string"},
                "depth": {"type": "integer"},
                "source_video_presigned_url": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "users.SignUpRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}
        },
        "users.SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 6}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Remix Service API",
	Description:      "Presigned uploads and remix lineage for short videos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
