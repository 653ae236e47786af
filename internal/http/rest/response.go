package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/tracing"
)

// ServerResponse carries the handler outcome back through the Handler
// adapter. Body is marshaled as-is so handlers control the exact envelope.
type ServerResponse struct {
	Status     string
	StatusCode int
	Body       map[string]interface{}
}

func respondWithData(status string, body map[string]interface{}) *ServerResponse {
	if body == nil {
		body = map[string]interface{}{}
	}
	return &ServerResponse{
		Status:     status,
		StatusCode: util.StatusCode(status),
		Body:       body,
	}
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	requestID := ""
	if tc != nil {
		requestID = tc.RequestID
	}
	if err != nil {
		log.Printf("[%s] %s: %v", requestID, message, err)
	} else {
		log.Printf("[%s] %s", requestID, message)
	}
	return &ServerResponse{
		Status:     status,
		StatusCode: util.StatusCode(status),
		Body: map[string]interface{}{
			"success": false,
			"message": message,
		},
	}
}

// writeErrorResponse writes an error envelope directly, for middleware and
// plain http.HandlerFunc endpoints that bypass the Handler adapter.
func writeErrorResponse(w http.ResponseWriter, err error, status string, message string) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	}
	respByte, marshalErr := json.Marshal(map[string]interface{}{
		"success": false,
		"message": message,
	})
	if marshalErr != nil {
		http.Error(w, message, util.StatusCode(status))
		return
	}
	writeJSONResponse(w, respByte, util.StatusCode(status))
}

func writeJSONResponse(w http.ResponseWriter, b []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		log.Printf("unable to write response body: %v", err)
	}
}
