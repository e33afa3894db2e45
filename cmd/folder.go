package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/woodshedhq/woodshed/internal/models"
	"github.com/woodshedhq/woodshed/internal/shared"
)

// FolderAdd creates a folder.
func (r *Runner) FolderAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: folder name required", shared.ErrMissingArgument)
	}

	folder := models.NewFolder(0, name)
	if err := r.folders.Create(folder); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	r.writePlain("✓ Created folder %q\n", folder.Name())
	return nil
}

// FolderList lists folders with their song counts.
func (r *Runner) FolderList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	folders, err := r.folders.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	if cmd.Bool("json") {
		type folderJSON struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Songs int    `json:"songs"`
		}
		out := make([]folderJSON, 0, len(folders))
		for _, folder := range folders {
			songs, err := r.songs.List(map[string]any{"folder_id": folder.ID()})
			if err != nil {
				return fmt.Errorf("failed to count songs: %w", err)
			}
			out = append(out, folderJSON{ID: folder.ID(), Name: folder.Name(), Songs: len(songs)})
		}
		return r.writeJSON(out, true)
	}

	if len(folders) == 0 {
		r.writePlain("No folders yet. Create one with 'woodshed folder add'\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Folders (%d)", len(folders)))
	for _, folder := range folders {
		songs, err := r.songs.List(map[string]any{"folder_id": folder.ID()})
		if err != nil {
			return fmt.Errorf("failed to count songs: %w", err)
		}
		r.writePlain("%s (%d songs)\n", folder.Name(), len(songs))
	}
	return nil
}

// FolderRemove soft-deletes a folder. Songs filed under it stay in the library.
func (r *Runner) FolderRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: folder name required", shared.ErrMissingArgument)
	}

	folder, err := r.folders.GetByName(name)
	if err != nil {
		return fmt.Errorf("failed to find folder %q: %w", name, err)
	}

	if err := r.folders.Delete(folder.ID()); err != nil {
		return fmt.Errorf("failed to remove folder: %w", err)
	}

	r.writePlain("✓ Removed folder %q\n", folder.Name())
	return nil
}
