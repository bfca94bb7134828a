package storefront

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditSink is where recorded entries go; the audit logs repository
// satisfies it
type AuditSink interface {
	AppendTx(ctx context.Context, tx bun.IDB, entry *AuditLog) (*AuditLog, error)
}

// AuditRecorder turns a before/after pair of entity snapshots into a stored
// field level diff. Handlers call it explicitly after each mutation; there
// is no implicit interception layer.
type AuditRecorder struct {
	logs   AuditSink
	logger Logger
}

func NewAuditRecorder(logs AuditSink) *AuditRecorder {
	return &AuditRecorder{
		logs:   logs,
		logger: defLogger{},
	}
}

func (r *AuditRecorder) WithLogger(l Logger) *AuditRecorder {
	r.logger = l
	return r
}

// RecordTx appends one audit entry inside the caller's transaction so the
// entry commits or rolls back together with the change it describes.
func (r *AuditRecorder) RecordTx(ctx context.Context, tx bun.IDB, actorID, action, entityType, entityID string, before, after any) error {
	changes, err := diffSnapshots(before, after)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to diff audit snapshots")
	}

	entry := &AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		ActorID:    actorID,
	}

	if _, err := r.logs.AppendTx(ctx, tx, entry); err != nil {
		return err
	}

	r.logger.Debug("audit entry recorded", "entity", entityType, "action", action, "id", entityID)

	return nil
}

type fieldChange struct {
	From any `json:"from,omitempty"`
	To   any `json:"to,omitempty"`
}

// diffSnapshots marshals both snapshots through JSON and keeps only the
// fields whose values differ. Nil snapshots are treated as empty, so creates
// show every field as new and deletes show every field as removed.
func diffSnapshots(before, after any) (string, error) {
	beforeMap, err := snapshotMap(before)
	if err != nil {
		return "", err
	}

	afterMap, err := snapshotMap(after)
	if err != nil {
		return "", err
	}

	changes := map[string]fieldChange{}

	for key, prev := range beforeMap {
		next, ok := afterMap[key]
		if !ok {
			changes[key] = fieldChange{From: prev}
			continue
		}
		if !reflect.DeepEqual(prev, next) {
			changes[key] = fieldChange{From: prev, To: next}
		}
	}

	for key, next := range afterMap {
		if _, ok := beforeMap[key]; !ok {
			changes[key] = fieldChange{To: next}
		}
	}

	encoded, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func snapshotMap(v any) (map[string]any, error) {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Ptr && reflect.ValueOf(v).IsNil()) {
		return map[string]any{}, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	return out, nil
}
