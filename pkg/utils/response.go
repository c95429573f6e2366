package utils

import "github.com/gin-gonic/gin"

// Envelope is the response wrapper every API operation uses.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Envelope{Success: true, Data: data, Message: message})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, code int, msg string) {
	c.JSON(code, Envelope{Success: false, Error: msg})
}

// AbortFail writes a failure envelope and stops the handler chain.
func AbortFail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Envelope{Success: false, Error: msg})
}
