package usecase

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

type InputOptions struct {
	// AudioExt is the audio file extension without the dot, e.g. "mp3".
	AudioExt string
	// SubtitleExts restricts subtitle candidates; empty accepts any other file.
	SubtitleExts []string
}

// ResolveInputs finds the single subtitle file and the single audio file
// anywhere under folder. Hidden files and directories are ignored.
func ResolveInputs(folder string, opts InputOptions) (subtitle, audio string, err error) {
	audioExt := "." + strings.ToLower(strings.TrimPrefix(opts.AudioExt, "."))
	subExts := make([]string, 0, len(opts.SubtitleExts))
	for _, e := range opts.SubtitleExts {
		subExts = append(subExts, "."+strings.ToLower(strings.TrimPrefix(e, ".")))
	}

	var subs, audios []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != folder && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case ext == audioExt:
			audios = append(audios, path)
		case len(subExts) == 0 || slices.Contains(subExts, ext):
			subs = append(subs, path)
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("scan %s: %w", folder, err)
	}

	subtitle, err = single(subs, "subtitle")
	if err != nil {
		return "", "", err
	}
	audio, err = single(audios, audioExt+" audio")
	if err != nil {
		return "", "", err
	}
	return subtitle, audio, nil
}

func single(paths []string, kind string) (string, error) {
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("%w: no %s file", ErrMissingInput, kind)
	case 1:
		return paths[0], nil
	default:
		return "", fmt.Errorf("%w: %d %s files: %s", ErrDuplicateInput, len(paths), kind, strings.Join(paths, ", "))
	}
}
