package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/pkg/utils"
)

// DiagnosticLog is a client-side failure the app reports, e.g. a
// storage read that fell back to "no session"
type DiagnosticLog struct {
	Timestamp string                 `json:"timestamp"`
	Context   string                 `json:"context"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	Platform  string                 `json:"platform"`
}

// ReceiveDiagnosticLog handles POST /api/logs/diagnostic
func ReceiveDiagnosticLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, _ := middleware.GetDeviceID(r)

		var entry DiagnosticLog
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(entry.Message) == "" {
			utils.RespondError(w, http.StatusBadRequest, "message is required")
			return
		}

		prefix := "📱"
		switch strings.ToUpper(entry.Level) {
		case "ERROR":
			prefix = "🔴"
		case "WARNING":
			prefix = "🟡"
		case "INFO":
			prefix = "🔵"
		}

		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Printf("%s MOBILE DIAGNOSTIC [%s]", prefix, entry.Level)
		log.Printf("   Device:    %s", deviceID)
		log.Printf("   Platform:  %s", entry.Platform)
		log.Printf("   Context:   %s", entry.Context)
		log.Printf("   Timestamp: %s", entry.Timestamp)
		log.Printf("   Message:   %s", entry.Message)
		if len(entry.Data) > 0 {
			if dataJSON, err := json.MarshalIndent(entry.Data, "      ", "  "); err == nil {
				log.Printf("   Data:\n      %s", string(dataJSON))
			}
		}
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "received"})
	}
}
