package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Coop Kiosk API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Coop Kiosk API",
    "version": "1.0.0"
  },
  "paths": {
    "/health": {
      "get": {
        "summary": "Health check",
        "responses": {
          "200": {"description": "Service is up"}
        }
      }
    },
    "/login": {
      "post": {
        "summary": "Login by username or card id with a 4-digit PIN",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["pin"],
                "properties": {
                  "username": {"type": "string"},
                  "cardId": {"type": "string"},
                  "pin": {"type": "string", "pattern": "^[0-9]{4}$"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Session created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Invalid credentials"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/account": {
      "get": {
        "summary": "Get the authenticated member's account",
        "security": [{"SessionAuth": []}],
        "responses": {
          "200": {"description": "Account fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Member not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/account/summary": {
      "get": {
        "summary": "Account summary with month spend, recent sales and ledger entries",
        "security": [{"SessionAuth": []}],
        "parameters": [
          {
            "name": "year",
            "in": "query",
            "schema": {"type": "integer"}
          },
          {
            "name": "month",
            "in": "query",
            "schema": {"type": "integer", "minimum": 1, "maximum": 12}
          }
        ],
        "responses": {
          "200": {"description": "Summary fetched"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Member not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/balance-transactions": {
      "get": {
        "summary": "Paginated ledger history, newest first",
        "security": [{"SessionAuth": []}],
        "parameters": [
          {
            "name": "page",
            "in": "query",
            "schema": {"type": "integer", "minimum": 1}
          },
          {
            "name": "limit",
            "in": "query",
            "schema": {"type": "integer", "minimum": 1, "maximum": 100}
          }
        ],
        "responses": {
          "200": {"description": "Transactions fetched"},
          "401": {"description": "Unauthorized"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/search-member": {
      "get": {
        "summary": "Look up a transfer recipient by card id",
        "security": [{"SessionAuth": []}],
        "parameters": [
          {
            "name": "cardId",
            "in": "query",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"description": "Member found"},
          "400": {"description": "Validation error or own card"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Member not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/fund-transfer/request-otp": {
      "post": {
        "summary": "Request a one-time code for a transfer",
        "security": [{"SessionAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["recipientCardId", "amount"],
                "properties": {
                  "recipientCardId": {"type": "string"},
                  "amount": {"type": "string", "example": "100.00"},
                  "note": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Code sent to the sender's email"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "404": {"description": "Recipient not found"},
          "422": {"description": "Insufficient balance"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/fund-transfer/verify-otp": {
      "post": {
        "summary": "Execute the pending transfer with the one-time code",
        "security": [{"SessionAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["code"],
                "properties": {
                  "code": {"type": "string", "pattern": "^[0-9]{6}$"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Transfer completed"},
          "400": {"description": "Invalid, expired or used code"},
          "401": {"description": "Unauthorized"},
          "422": {"description": "Insufficient balance"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/refill-balance": {
      "post": {
        "summary": "Credit a member's balance (admin and staff only)",
        "security": [{"SessionAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["memberId", "amount"],
                "properties": {
                  "memberId": {"type": "string"},
                  "amount": {"type": "string", "example": "500.00"},
                  "note": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Balance refilled"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "403": {"description": "Role not allowed"},
          "404": {"description": "Member not found"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/process-refund": {
      "post": {
        "summary": "Refund a completed sale to the member's balance",
        "security": [{"SessionAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["saleId", "reason"],
                "properties": {
                  "saleId": {"type": "string"},
                  "reason": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Refund processed with receipt data"},
          "400": {"description": "Validation error or sale not refundable"},
          "401": {"description": "Unauthorized"},
          "403": {"description": "Role not allowed"},
          "404": {"description": "Sale not found"},
          "500": {"description": "Server error"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "SessionAuth": {
        "type": "http",
        "scheme": "bearer"
      }
    }
  }
}`
