package web

import (
	"net/http"

	"clubktm/internal/domain/record"
)

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	// Authentication and staff directory
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/password", handleChangePassword)
	mux.HandleFunc("/api/staff", handleStaff)

	// Public site
	mux.HandleFunc("/api/content", handleContent)
	mux.HandleFunc("/api/contact", handleContact)

	// Applications carry their own handler: public POST, staff GET, CSV
	// export. Per-id writes fall through to the generic record routes.
	mux.HandleFunc("/api/applications", handleApplications)
	mux.HandleFunc("/api/applications/", handleCollectionFor(record.CollectionApplications))
	mux.HandleFunc("/api/applications/export", handleApplicationsExport)

	// Every other collection shares the generic record routes.
	for _, name := range record.Collections {
		if name == record.CollectionApplications {
			continue
		}
		handler := handleCollectionFor(name)
		mux.HandleFunc("/api/"+name, handler)
		mux.HandleFunc("/api/"+name+"/", handler)
	}

	// Administration
	mux.HandleFunc("/api/data/clear", handleClearData)
	mux.HandleFunc("/api/outbox/failures", handleOutboxFailures)
}
