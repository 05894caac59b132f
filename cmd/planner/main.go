package main

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/calendar-pro/planner/internal/commands"
	"github.com/calendar-pro/planner/internal/planner"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	// Parse flags
	port := pflag.Int("port", 8080, "Port to listen on")
	dataDir := pflag.String("data-dir", "", "Storage directory (overrides calendar_settings.json)")
	pflag.Parse()

	// Resolve the storage directory: flag > env > settings file.
	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("PLANNER_DATA_DIR")
	}
	if dir == "" {
		settings := planner.LoadSettings(planner.DefaultStorageDir())
		dir = settings.StorageLocation
	}

	gw, err := planner.NewGateway(dir)
	if err != nil {
		log.Fatalf("Failed to open storage directory %s: %v", dir, err)
	}

	if err := planner.LoadAuthCredentials(); err != nil {
		log.Fatalf("Failed to load auth credentials: %v", err)
	}

	notes, err := planner.NewNoteStore(gw)
	if err != nil {
		log.Fatalf("Failed to load notes: %v", err)
	}
	modules, err := planner.NewModuleRegistry(gw)
	if err != nil {
		log.Fatalf("Failed to load modules: %v", err)
	}
	timetable, err := planner.NewTimetableStore(gw, modules)
	if err != nil {
		log.Fatalf("Failed to load timetable: %v", err)
	}

	srv := planner.NewServer(gw, notes, modules, timetable)
	srv.IndexHTML = indexHTML

	// Read routes
	http.HandleFunc("/", srv.ServeIndex)
	http.HandleFunc("/api/config", srv.GetConfig)
	http.HandleFunc("/api/grid", srv.HandleGrid)
	http.HandleFunc("/api/notes", srv.HandleNotes)
	http.HandleFunc("/api/notes/render", srv.HandleNotesRender)
	http.HandleFunc("/api/notes/count", srv.HandleNotesCount)
	http.HandleFunc("/api/notes/recent", srv.HandleRecentNotes)
	http.HandleFunc("/api/modules", srv.HandleModules)
	http.HandleFunc("/api/timetable", srv.HandleTimetable)
	http.HandleFunc("/api/timetable/cell", srv.HandleTimetableCell)
	http.HandleFunc("/api/timetable/rooms", srv.HandleRooms)
	http.HandleFunc("/api/download", srv.HandleDownload)
	http.HandleFunc("/api/subscribe", srv.HandleSubscribe)

	// Mutating routes (protected with Basic Auth when auth.secret exists)
	http.HandleFunc("/api/notes/save", planner.RequireAuth(srv.SaveNotes))
	http.HandleFunc("/api/notes/delete", planner.RequireAuth(srv.DeleteNotes))
	http.HandleFunc("/api/modules/add", planner.RequireAuth(srv.AddModule))
	http.HandleFunc("/api/modules/delete", planner.RequireAuth(srv.DeleteModule))
	http.HandleFunc("/api/timetable/set", planner.RequireAuth(srv.SetTimetableCell))

	// Serve static files
	http.Handle("/static/", http.FileServer(http.FS(staticFiles)))

	log.Printf("Starting Calendar Pro planner on http://localhost:%d", *port)
	log.Printf("Data directory: %s", gw.Dir())
	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), nil); err != nil {
		log.Fatal(err)
	}
}
