package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/logger"
)

const skillMarker = "SKILL.md"

func (l *Local) PlanSkillsMigration(ctx context.Context, req SkillsPlanRequest) (*SkillsMigrationPlan, error) {
	source, target, err := l.skillsPaths(req.SourcePath, req.TargetPath)
	if err != nil {
		return nil, err
	}
	items, err := buildSkillsPlan(ctx, source, target)
	if err != nil {
		return nil, err
	}
	plan := &SkillsMigrationPlan{Items: items}
	plan.ConflictCount = len(plan.Conflicts())
	logger.FromContext(ctx).V(1).Info("planned skills migration",
		"source", source, "target", target, "items", len(items), "conflicts", plan.ConflictCount)
	return plan, nil
}

func (l *Local) ApplySkillsMigration(ctx context.Context, req SkillsApplyRequest) (*SkillsMigrationResult, error) {
	source, target, err := l.skillsPaths(req.SourcePath, req.TargetPath)
	if err != nil {
		return nil, err
	}
	mode := MigrationMode(strings.TrimSpace(string(req.Mode)))
	if mode != ModeReplace && mode != ModeSkip {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}
	items, err := buildSkillsPlan(ctx, source, target)
	if err != nil {
		return nil, err
	}

	res := &SkillsMigrationResult{}
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if it.Exists {
			if mode == ModeSkip {
				res.Skipped++
				continue
			}
			if err := os.RemoveAll(it.Target); err != nil {
				return res, fmt.Errorf("failed to remove %s: %w", it.Target, err)
			}
			res.Replaced++
		} else {
			res.Copied++
		}
		if it.IsDir {
			err = copyDir(it.Source, it.Target)
		} else {
			err = copyFile(it.Source, it.Target)
		}
		if err != nil {
			return res, err
		}
	}
	logger.FromContext(ctx).V(1).Info("applied skills migration", "mode", mode,
		"copied", res.Copied, "replaced", res.Replaced, "skipped", res.Skipped)
	return res, nil
}

func (l *Local) skillsPaths(sourcePath, targetPath string) (string, string, error) {
	source, err := ExpandTilde(strings.TrimSpace(sourcePath), l.home)
	if err != nil {
		return "", "", err
	}
	target, err := ExpandTilde(strings.TrimSpace(targetPath), l.home)
	if err != nil {
		return "", "", err
	}
	if source == "" || target == "" {
		return "", "", errors.New("source and target paths are required")
	}
	if _, err := os.Stat(source); err != nil {
		return "", "", fmt.Errorf("source directory does not exist: %w", err)
	}
	return source, target, nil
}

// buildSkillsPlan lists what to copy. A source holding SKILL.md is a single
// skill; otherwise each visible entry is one item.
func buildSkillsPlan(ctx context.Context, source, target string) ([]SkillsMigrationItem, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", source)
	}

	if st, err := os.Stat(filepath.Join(source, skillMarker)); err == nil && !st.IsDir() {
		name := filepath.Base(filepath.Clean(source))
		dest := filepath.Join(target, name)
		return []SkillsMigrationItem{{
			Name:   name,
			Source: source,
			Target: dest,
			Exists: pathExists(dest),
			IsDir:  true,
		}}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	items := []SkillsMigrationItem{}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		src := filepath.Join(source, e.Name())
		st, err := os.Stat(src)
		if err != nil {
			logger.FromContext(ctx).V(1).Info("skipping unreadable entry", "path", src, "error", err.Error())
			continue
		}
		dest := filepath.Join(target, e.Name())
		items = append(items, SkillsMigrationItem{
			Name:   e.Name(),
			Source: src,
			Target: dest,
			Exists: pathExists(dest),
			IsDir:  st.IsDir(),
		})
	}
	return items, nil
}

func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		return copyFile(path, out)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
