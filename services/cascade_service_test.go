package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageready/logger"
)

type fakeDocStore struct {
	speeches     map[string]map[string][]string // collection -> userID -> speech ids
	gamification map[string]bool
	badges       map[string]bool
	users        map[string]bool

	ops              []string
	failGamification bool
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		speeches: map[string]map[string][]string{
			SpeechHistoryCollection: {},
			SpeechesCollection:      {},
		},
		gamification: map[string]bool{},
		badges:       map[string]bool{},
		users:        map[string]bool{},
	}
}

func (f *fakeDocStore) ListSpeechIDs(_ context.Context, userID, collection string) ([]string, error) {
	return append([]string{}, f.speeches[collection][userID]...), nil
}

func (f *fakeDocStore) DeleteSpeech(_ context.Context, userID, collection, speechID string) error {
	f.ops = append(f.ops, "speech:"+collection+":"+speechID)
	remaining := []string{}
	for _, id := range f.speeches[collection][userID] {
		if id != speechID {
			remaining = append(remaining, id)
		}
	}
	f.speeches[collection][userID] = remaining
	return nil
}

func (f *fakeDocStore) DeleteGamification(_ context.Context, userID string) error {
	if f.failGamification {
		return errors.New("store unavailable")
	}
	f.ops = append(f.ops, "gamification:"+userID)
	delete(f.gamification, userID)
	return nil
}

func (f *fakeDocStore) DeleteBadgeProgress(_ context.Context, userID string) error {
	f.ops = append(f.ops, "badges:"+userID)
	delete(f.badges, userID)
	return nil
}

func (f *fakeDocStore) DeleteUser(_ context.Context, userID string) error {
	f.ops = append(f.ops, "user:"+userID)
	delete(f.users, userID)
	return nil
}

type fakeBlobStore struct {
	keys    map[string][]string // prefix -> keys
	deleted []string
	listErr error
}

func (f *fakeBlobStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string{}, f.keys[prefix]...), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func seededStore() *fakeDocStore {
	store := newFakeDocStore()
	store.users["u1"] = true
	store.speeches[SpeechHistoryCollection]["u1"] = []string{"s1", "s2"}
	store.speeches[SpeechesCollection]["u1"] = []string{"s3"}
	store.gamification["u1"] = true
	store.badges["u1"] = true
	return store
}

func TestCascadeDeletesAllDependentsThenUser(t *testing.T) {
	store := seededStore()
	blobs := &fakeBlobStore{keys: map[string][]string{
		"users/u1/speeches/":      {"users/u1/speeches/a.wav"},
		"users/u1/speechHistory/": {"users/u1/speechHistory/b.wav"},
	}}
	cascade := NewCascadeService(store, blobs, logger.NewNop())

	require.NoError(t, cascade.DeleteUser(context.Background(), "u1"))

	assert.Empty(t, store.speeches[SpeechHistoryCollection]["u1"])
	assert.Empty(t, store.speeches[SpeechesCollection]["u1"])
	assert.NotContains(t, store.gamification, "u1")
	assert.NotContains(t, store.badges, "u1")
	assert.NotContains(t, store.users, "u1")
	assert.ElementsMatch(t, []string{"users/u1/speeches/a.wav", "users/u1/speechHistory/b.wav"}, blobs.deleted)

	// The user document delete is the commit point and must come last.
	require.NotEmpty(t, store.ops)
	assert.Equal(t, "user:u1", store.ops[len(store.ops)-1])
}

func TestCascadeIsIdempotent(t *testing.T) {
	store := seededStore()
	blobs := &fakeBlobStore{keys: map[string][]string{}}
	cascade := NewCascadeService(store, blobs, logger.NewNop())

	require.NoError(t, cascade.DeleteUser(context.Background(), "u1"))
	require.NoError(t, cascade.DeleteUser(context.Background(), "u1"), "re-running on a gone user must succeed")

	assert.Empty(t, store.speeches[SpeechHistoryCollection]["u1"])
	assert.Empty(t, store.speeches[SpeechesCollection]["u1"])
	assert.NotContains(t, store.users, "u1")
}

func TestCascadeAbortsWhenDocumentStepFails(t *testing.T) {
	store := seededStore()
	store.failGamification = true
	cascade := NewCascadeService(store, &fakeBlobStore{}, logger.NewNop())

	err := cascade.DeleteUser(context.Background(), "u1")
	require.Error(t, err)

	// The user document stays so a retry is safe and non-destructive.
	assert.Contains(t, store.users, "u1")
	for _, op := range store.ops {
		assert.NotEqual(t, "user:u1", op)
	}
}

func TestCascadeSwallowsBlobFailures(t *testing.T) {
	store := seededStore()
	blobs := &fakeBlobStore{listErr: fmt.Errorf("prefix does not exist")}
	cascade := NewCascadeService(store, blobs, logger.NewNop())

	require.NoError(t, cascade.DeleteUser(context.Background(), "u1"),
		"missing blob prefixes must not block user removal")
	assert.NotContains(t, store.users, "u1")
}
