package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"skymaya/internal/assets"
	"skymaya/internal/datatree"
	"skymaya/internal/fileutil"
	"skymaya/internal/logging"
	"skymaya/internal/pathspec"
)

// ExtractRequest names what ExtractActor copies and where.
type ExtractRequest struct {
	// Source is any path inside the source data root. The DLC is inferred
	// from it, and so is the actor when Actor is empty.
	Source      string
	Actor       string
	Destination string
}

// ExtractResult lists what ExtractActor produced.
type ExtractResult struct {
	Root         string   `json:"root"`
	Actor        string   `json:"actor"`
	DLC          int      `json:"dlc"`
	ActorDir     string   `json:"actor_dir"`
	TextureDir   string   `json:"texture_dir"`
	Files        int      `json:"files"`
	CacheFile    string   `json:"cache_file,omitempty"`
	BoundAnim    string   `json:"bound_anim,omitempty"`
	DataSetFiles []string `json:"data_set_files,omitempty"`
}

// ExtractActor copies one actor into a new data root at req.Destination:
// its mesh folder into meshes/actors/<actor>, its texture folder into
// textures/actors/<actor>, its animation cache file and bound anim file into
// meshes/animationdata and meshes/animationdata/boundanims, and every
// meshes/*.txt data set file. The destination layout never carries a DLC
// folder. A missing texture folder, cache file, or bound anim file is
// skipped; a missing actor folder is an error.
func ExtractActor(ctx context.Context, logger *slog.Logger, req ExtractRequest) (ExtractResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "workflow")
	if strings.TrimSpace(req.Destination) == "" {
		return ExtractResult{}, errors.New("extract destination required")
	}

	root, err := datatree.FindProjectRoot(req.Source)
	if err != nil {
		return ExtractResult{}, err
	}
	dlc, err := datatree.InferDLC(req.Source)
	if err != nil {
		return ExtractResult{}, err
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		inferred, ok := datatree.InferActor(req.Source)
		if !ok {
			return ExtractResult{}, fmt.Errorf("no actor in %s; pass one explicitly", req.Source)
		}
		actor = inferred
	}

	src := assets.New(root, actor, dlc)
	srcActorDir, err := src.ActorDir()
	if err != nil {
		return ExtractResult{}, err
	}
	if srcActorDir == "" {
		return ExtractResult{}, &pathspec.NotFoundError{Kind: pathspec.ErrDirectoryNotFound, Path: src.ActorPattern().Join(root)}
	}

	dst := filepath.Clean(req.Destination)
	result := ExtractResult{
		Root:       root,
		Actor:      actor,
		DLC:        dlc,
		ActorDir:   filepath.Join(dst, "meshes", "actors", actor),
		TextureDir: filepath.Join(dst, "textures", "actors", actor),
	}
	animDataDir := filepath.Join(dst, "meshes", "animationdata")
	boundAnimDir := filepath.Join(animDataDir, "boundanims")
	for _, dir := range []string{result.ActorDir, result.TextureDir, boundAnimDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	copied, err := fileutil.CopyDir(srcActorDir, result.ActorDir)
	result.Files += copied
	if err != nil {
		return result, fmt.Errorf("copy actor folder: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	srcTextureDir, err := src.TextureDir()
	if err != nil {
		return result, err
	}
	if srcTextureDir == "" {
		logger.Warn("actor has no texture folder", logging.String(logging.FieldActor, actor))
	} else {
		copied, err := fileutil.CopyDir(srcTextureDir, result.TextureDir)
		result.Files += copied
		if err != nil {
			return result, fmt.Errorf("copy texture folder: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if result.CacheFile, err = copyLookup(src.CacheFile, actor, animDataDir); err != nil {
		return result, fmt.Errorf("copy cache file: %w", err)
	}
	if result.BoundAnim, err = copyLookup(src.BoundAnimFile, actor, boundAnimDir); err != nil {
		return result, fmt.Errorf("copy bound anim file: %w", err)
	}

	result.DataSetFiles, err = fileutil.CopyMatching(filepath.Join(root, "meshes"), "*.txt", filepath.Join(dst, "meshes"))
	if err != nil {
		return result, fmt.Errorf("copy data set files: %w", err)
	}

	logger.Info("actor extracted",
		logging.String(logging.FieldActor, actor),
		logging.Int(logging.FieldDLC, dlc),
		logging.String(logging.FieldDataRoot, root),
		logging.String("destination", dst),
		logging.Int("files", result.Files),
	)
	return result, nil
}

// copyLookup copies the file found by lookup(name) into dir, returning the
// new path or "" when there was nothing to copy.
func copyLookup(lookup func(string) (string, error), name, dir string) (string, error) {
	path, err := lookup(name)
	if err != nil || path == "" {
		return "", err
	}
	target := filepath.Join(dir, filepath.Base(path))
	if err := fileutil.CopyFileVerified(path, target); err != nil {
		return "", err
	}
	return target, nil
}
