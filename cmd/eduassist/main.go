package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/backend"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/educontext"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/export"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/imagecache"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/tui"
)

func main() {
	_ = godotenv.Load()

	endpoint := flag.String("backend", "", "backend base URL (overrides EDUASSIST_BACKEND)")
	exportDir := flag.String("export-dir", ".", "directory for exported canvas files")
	teacherLang := flag.String("teacher-language", educontext.DefaultTeacherLanguage, "language the teacher teaches in")
	studentLang := flag.String("student-language", educontext.DefaultStudentLanguage, "language the students speak")
	classLevel := flag.String("class-level", educontext.DefaultClassLevel, "class level (grade)")
	classStrength := flag.String("class-strength", educontext.DefaultClassStrength, "number of students in the class")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	absExportDir, err := filepath.Abs(*exportDir)
	if err != nil {
		fmt.Println("failed to resolve export directory:", err)
		os.Exit(1)
	}

	client := backend.NewFromEnv(backend.Config{Endpoint: *endpoint})

	images, err := imagecache.New(http.DefaultClient)
	if err != nil {
		fmt.Println("image cache disabled:", err)
	}
	exporter := export.New(&export.CanvasRasterizer{Images: images})

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Backend:   client,
			Exporter:  exporter,
			ExportDir: absExportDir,
			Context: educontext.Context{
				TeacherLanguage: *teacherLang,
				StudentLanguage: *studentLang,
				ClassLevel:      *classLevel,
				ClassStrength:   *classStrength,
			},
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
