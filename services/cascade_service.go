package services

import (
	"context"
	"fmt"

	"stageready/logger"
)

// DocumentDeleter is the slice of the repository the cascade needs. Every
// operation is idempotent: deleting something already gone is a no-op.
type DocumentDeleter interface {
	ListSpeechIDs(ctx context.Context, userID, collection string) ([]string, error)
	DeleteSpeech(ctx context.Context, userID, collection, speechID string) error
	DeleteGamification(ctx context.Context, userID string) error
	DeleteBadgeProgress(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// BlobStore lists and deletes uploaded files by key
type BlobStore interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// CascadeService removes a user together with every dependent record and
// file. Document steps are authoritative: any failure aborts before the user
// document is touched, so a retry is always safe. Blob cleanup is best
// effort; a failure there is logged and never blocks the user's removal.
type CascadeService struct {
	store DocumentDeleter
	blobs BlobStore
	log   *logger.Logger
}

func NewCascadeService(store DocumentDeleter, blobs BlobStore, log *logger.Logger) *CascadeService {
	return &CascadeService{
		store: store,
		blobs: blobs,
		log:   log.With("service", "CascadeService"),
	}
}

// DeleteUser drains the user's speech sub-collections, removes the
// gamification and badge documents, sweeps the upload prefixes, and finally
// deletes the user document itself. Once the user document is gone the user
// is gone, even if orphaned blobs remain.
func (cs *CascadeService) DeleteUser(ctx context.Context, userID string) error {
	for _, collection := range []string{SpeechHistoryCollection, SpeechesCollection} {
		if err := cs.drainSpeeches(ctx, userID, collection); err != nil {
			return err
		}
	}

	if err := cs.store.DeleteGamification(ctx, userID); err != nil {
		return fmt.Errorf("cascade delete of user %s: %w", userID, err)
	}
	if err := cs.store.DeleteBadgeProgress(ctx, userID); err != nil {
		return fmt.Errorf("cascade delete of user %s: %w", userID, err)
	}

	cs.sweepBlobs(ctx, userID, fmt.Sprintf("users/%s/speeches/", userID))
	cs.sweepBlobs(ctx, userID, fmt.Sprintf("users/%s/speechHistory/", userID))

	if err := cs.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("cascade delete of user %s: %w", userID, err)
	}
	cs.log.Info("user deleted", "userId", userID)
	return nil
}

func (cs *CascadeService) drainSpeeches(ctx context.Context, userID, collection string) error {
	ids, err := cs.store.ListSpeechIDs(ctx, userID, collection)
	if err != nil {
		return fmt.Errorf("cascade delete of user %s: %w", userID, err)
	}
	for _, id := range ids {
		if err := cs.store.DeleteSpeech(ctx, userID, collection, id); err != nil {
			return fmt.Errorf("cascade delete of user %s: %w", userID, err)
		}
	}
	return nil
}

// sweepBlobs deletes everything under the prefix. Not every user has
// uploads, and the user removal must not hinge on storage, so every failure
// here is swallowed after logging.
func (cs *CascadeService) sweepBlobs(ctx context.Context, userID, prefix string) {
	keys, err := cs.blobs.ListKeys(ctx, prefix)
	if err != nil {
		cs.log.Warn("blob listing failed, leaving files behind", "userId", userID, "prefix", prefix, "error", err)
		return
	}
	for _, key := range keys {
		if err := cs.blobs.Delete(ctx, key); err != nil {
			cs.log.Warn("blob delete failed, leaving file behind", "userId", userID, "key", key, "error", err)
		}
	}
}
