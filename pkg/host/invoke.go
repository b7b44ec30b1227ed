package host

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type handler func(ctx context.Context, b Bridge, args []byte) (any, error)

var commands = map[string]handler{
	"get_config_path": func(ctx context.Context, b Bridge, _ []byte) (any, error) {
		return b.ConfigPath(ctx)
	},
	"read_config": func(ctx context.Context, b Bridge, _ []byte) (any, error) {
		return b.ReadConfig(ctx)
	},
	"write_config": func(ctx context.Context, b Bridge, args []byte) (any, error) {
		var req WriteConfigRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return b.WriteConfig(ctx, req)
	},
	"install_builtin_plugin": func(ctx context.Context, b Bridge, args []byte) (any, error) {
		var req InstallPluginRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return b.InstallBuiltinPlugin(ctx, req)
	},
	"plan_skills_migration": func(ctx context.Context, b Bridge, args []byte) (any, error) {
		var req SkillsPlanRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return b.PlanSkillsMigration(ctx, req)
	},
	"apply_skills_migration": func(ctx context.Context, b Bridge, args []byte) (any, error) {
		var req SkillsApplyRequest
		if err := decodeArgs(args, &req); err != nil {
			return nil, err
		}
		return b.ApplySkillsMigration(ctx, req)
	},
}

// Commands lists the names Invoke accepts.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs a named bridge command with JSON arguments and returns the
// JSON encoded result.
func Invoke(ctx context.Context, b Bridge, command string, args []byte) ([]byte, error) {
	h, ok := commands[command]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	res, err := h(ctx, b, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}
	out, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode result: %w", command, err)
	}
	return out, nil
}

func decodeArgs(args []byte, v any) error {
	if strings.TrimSpace(string(args)) == "" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
