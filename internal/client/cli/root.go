package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/common"
)

func (a *App) Root(ctx context.Context) {

	fmt.Println("VoiceVault agent (type 'help' for commands)")

	for {
		fmt.Printf("vv (%s)> ", a.coordinator.State())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: permission, record [transcript], stop, save, discard, list, play <id>, delete <id>, sync, exit")

		case "permission":
			fmt.Printf("capability: %s\n", a.coordinator.RequestPermission(ctx))

		case "record":
			mode := models.RecorderAudioOnly
			if len(args) > 0 && args[0] == "transcript" {
				mode = models.RecorderWithTranscript
			}
			if err := a.coordinator.StartCapture(ctx, mode); err != nil {
				if errors.Is(err, common.ErrAlreadyActive) {
					fmt.Println("already recording, stop or discard first")
				} else {
					fmt.Printf("cannot start: %v\n", err)
				}
				continue
			}
			fmt.Printf("recording (%s)...\n", mode)

		case "stop":
			if err := a.coordinator.StopCapture(); err != nil {
				fmt.Printf("stop error: %v\n", err)
				continue
			}
			fmt.Printf("stopped after %ds\n", a.coordinator.Elapsed())

		case "save":
			a.Save(ctx)

		case "discard":
			a.coordinator.Discard()
			fmt.Println("discarded")

		case "list":
			a.List(ctx)

		case "play":
			if len(args) != 1 {
				fmt.Println("usage: play <id>")
				continue
			}
			a.Play(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				fmt.Println("usage: delete <id>")
				continue
			}
			a.Delete(ctx, args[0])

		case "sync":
			if err := a.syncer.SyncPending(ctx, a.userID); err != nil {
				fmt.Printf("sync finished with errors: %v\n", err)
			} else {
				fmt.Println("sync finished")
			}

		case "exit":
			return

		default:
			fmt.Printf("unknown command: %s\n", cmd)
		}
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
