// FilePath: server/sweeps/api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/sweeps/api/middleware"
	"github.com/itsatony/w4b_v3/server/sweeps/api/resources"
	"github.com/itsatony/w4b_v3/server/sweeps/docs"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(res *resources.Resources) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: res,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.Use(middleware.RequestID)

	// Operational routes
	r.router.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	r.router.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)
	r.router.HandleFunc("/swagger/doc.json", serveSwaggerDoc).Methods(http.MethodGet)

	// Sweeps
	r.router.HandleFunc("/sweep", r.resources.Sweeps.ListSweeps).Methods(http.MethodGet)
	r.router.HandleFunc("/download", r.resources.Sweeps.Download).Methods(http.MethodGet)

	// Uploads from hubs, with and without the trailing slash
	for _, path := range []string{"/upload/", "/upload"} {
		r.router.HandleFunc(path, r.resources.Uploads.Status).Methods(http.MethodGet)
		r.router.HandleFunc(path, r.resources.Uploads.UploadSweep).Methods(http.MethodPost)
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func serveSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		nuts.L.Errorf("[API] Failed to read swagger doc: %v", err)
		http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
