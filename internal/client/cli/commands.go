package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/voicevault/internal/client/pipeline"
)

// Save asks for the free-text fields, persists the finalized capture and
// returns as soon as the local write succeeds. Sync continues in the
// background.
func (a *App) Save(ctx context.Context) {
	prompt := a.readLine("prompt (optional): ")
	notes := a.readLine("notes (optional): ")

	rec, err := a.coordinator.SaveAndSync(ctx, pipeline.SaveParams{
		UserID: a.userID,
		Prompt: prompt,
		Notes:  notes,
	})
	if err != nil {
		fmt.Printf("save failed: %v\n", err)
		return
	}
	fmt.Printf("saved recording %d (%ds, %s), sync in progress\n", rec.ID, rec.Duration, rec.RecorderType)
}

func (a *App) List(ctx context.Context) {
	rows, err := a.recordings.List(ctx, a.userID)
	if err != nil {
		fmt.Printf("list failed: %v\n", err)
		return
	}
	if len(rows) == 0 {
		fmt.Println("no recordings")
		return
	}
	for _, r := range rows {
		fmt.Printf("%4d  %-16s  %4ds  %-7s  %s\n",
			r.ID, r.RecorderType, r.Duration, r.Status, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func (a *App) Play(ctx context.Context, arg string) {
	id, err := parseID(arg)
	if err != nil {
		fmt.Println(err)
		return
	}

	h, err := a.recordings.Play(ctx, id)
	if err != nil {
		fmt.Printf("play failed: %v\n", err)
		return
	}

	// No audio output device in the agent; report what would play.
	n, _ := io.Copy(io.Discard, h)
	fmt.Printf("played recording %d (%d bytes)\n", id, n)
}

func (a *App) Delete(ctx context.Context, arg string) {
	id, err := parseID(arg)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := a.recordings.Delete(ctx, id); err != nil {
		fmt.Printf("delete failed: %v\n", err)
		return
	}
	fmt.Printf("deleted recording %d\n", id)
}

func (a *App) readLine(prompt string) string {
	fmt.Print(prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
