package logctx

import (
	"context"

	"dettrace/internal/global"
)

// Tags form the namespace path printed on every log line, for example
// harness/injector/3. The path rides in the context so goroutines spawned
// by a component inherit its location automatically.

// Pushes one component onto the namespace path.
// The backing slice is copied so the parent context keeps its own path
// even when parent and child log concurrently.
func AppendCtxTag(ctx context.Context, newTag string) (newCtx context.Context) {
	current := GetTagList(ctx)

	path := make([]string, len(current), len(current)+1)
	copy(path, current)
	path = append(path, newTag)

	newCtx = context.WithValue(ctx, global.LogTagsKey, path)
	return
}

// Pops the most recent component off the namespace path, no-op when empty.
// Copies for the same reason as append.
func RemoveLastCtxTag(ctx context.Context) (newCtx context.Context) {
	current := GetTagList(ctx)

	depth := len(current)
	if depth > 0 {
		depth--
	}
	path := make([]string, depth)
	copy(path, current[:depth])

	newCtx = context.WithValue(ctx, global.LogTagsKey, path)
	return
}

// Current namespace path, empty when the context carries none
func GetTagList(ctx context.Context) (tags []string) {
	tags, validAssert := ctx.Value(global.LogTagsKey).([]string)
	if !validAssert {
		tags = []string{}
	}
	return
}
