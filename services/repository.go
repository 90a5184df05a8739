package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stageready/models"
)

const (
	UsersCollection         = "users"
	SpeechHistoryCollection = "speechHistory"
	// Legacy twin of speechHistory. Source data may populate either or both,
	// so deletes drain both collections; reads serve from speechHistory only.
	SpeechesCollection     = "speeches"
	GamificationCollection = "userGamification"
	BadgesCollection       = "userBadges"
)

// ErrNotFound reports a write aimed at a document that does not exist. Reads
// keep returning (nil, nil) for missing documents, and deletes stay no-ops;
// updates must not claim success when nothing was written.
var ErrNotFound = errors.New("document not found")

// Repository is the single point of contact with the document store. Missing
// documents come back as (nil, nil); only transport and decode faults are
// errors.
type Repository struct {
	db *mongo.Database
}

func NewRepository(database *mongo.Database) *Repository {
	return &Repository{db: database}
}

// parseID converts an external id into the store key. An unparseable id can
// never match a document, so it behaves like NotFound rather than an error.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// docID extracts a document's id as a string
func docID(doc bson.M) string {
	switch v := doc["_id"].(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	}
	return ""
}

// ── Users ──────────────────────────────────────────────────────────────

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	var doc bson.M
	err := r.db.Collection(UsersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	user := models.UserFromDoc(id, doc)
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.db.Collection(UsersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.UserFromDoc(docID(doc), doc))
	}
	return users, nil
}

// GetUserByEmail also returns the stored password hash for the login path.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var doc bson.M
	err := r.db.Collection(UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch user by email: %w", err)
	}
	user := models.UserFromDoc(docID(doc), doc)
	hash, _ := doc["passwordHash"].(string)
	return &user, hash, nil
}

// HasAnyAdmin reports whether any user document carries the admin role
func (r *Repository) HasAnyAdmin(ctx context.Context) (bool, error) {
	count, err := r.db.Collection(UsersCollection).CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return count > 0, nil
}

// CreateAdminUser inserts a user document with the admin role and a bcrypt
// password hash, returning the new id. Used only by the first-admin bootstrap.
func (r *Repository) CreateAdminUser(ctx context.Context, email, passwordHash, firstName, lastName string) (string, error) {
	now := time.Now()
	res, err := r.db.Collection(UsersCollection).InsertOne(ctx, bson.M{
		"email":        email,
		"passwordHash": passwordHash,
		"firstName":    firstName,
		"lastName":     lastName,
		"role":         models.RoleAdmin,
		"createdAt":    now,
		"updatedAt":    now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// UpdateUser merges the supplied fields into the user document and stamps
// updatedAt. Fields left nil in the update are untouched. Returns ErrNotFound
// when the user does not exist.
func (r *Repository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) error {
	oid, ok := parseID(id)
	if !ok {
		return fmt.Errorf("failed to update user %s: %w", id, ErrNotFound)
	}
	set := bson.M{"updatedAt": time.Now()}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Age != nil {
		set["age"] = *update.Age
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.PhoneNumber != nil {
		set["phoneNumber"] = *update.PhoneNumber
	}
	if update.Interests != nil {
		set["interests"] = *update.Interests
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	res, err := r.db.Collection(UsersCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *Repository) SetUserRole(ctx context.Context, id, role string) error {
	return r.UpdateUser(ctx, id, models.UserUpdate{Role: &role})
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return nil
	}
	_, err := r.db.Collection(UsersCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// ── Speeches ───────────────────────────────────────────────────────────

// ListUserSpeeches returns the user's speech history, newest first. A user
// with no history (or a gone user) yields an empty list.
func (r *Repository) ListUserSpeeches(ctx context.Context, userID string) ([]models.Speech, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []models.Speech{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.Collection(SpeechHistoryCollection).Find(ctx, bson.M{"userId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speeches for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode speeches: %w", err)
	}
	speeches := make([]models.Speech, 0, len(docs))
	for _, doc := range docs {
		speeches = append(speeches, models.SpeechFromDoc(docID(doc), userID, doc))
	}
	return speeches, nil
}

// ListAllSpeeches fetches every user's speech history, decorates each entry
// with the owner's display name, and returns the combined list newest first.
// The display name is recomputed on every read, never stored.
func (r *Repository) ListAllSpeeches(ctx context.Context, users []models.User) ([]models.Speech, error) {
	all := []models.Speech{}
	for _, user := range users {
		speeches, err := r.ListUserSpeeches(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for i := range speeches {
			speeches[i].UserName = user.DisplayName()
		}
		all = append(all, speeches...)
	}
	SortSpeechesByDate(all)
	return all, nil
}

// ListSpeechIDs lists the document ids in one of the user's speech
// sub-collections
func (r *Repository) ListSpeechIDs(ctx context.Context, userID, collection string) ([]string, error) {
	oid, ok := parseID(userID)
	if !ok {
		return []string{}, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{"userId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids for user %s: %w", collection, userID, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s ids: %w", collection, err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, docID(doc))
	}
	return ids, nil
}

// DeleteSpeech removes one speech from the given sub-collection. Deleting a
// speech that is already gone is a no-op.
func (r *Repository) DeleteSpeech(ctx context.Context, userID, collection, speechID string) error {
	oid, ok := parseID(userID)
	if !ok {
		return nil
	}
	sid, ok := parseID(speechID)
	if !ok {
		return nil
	}
	_, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": sid, "userId": oid})
	if err != nil {
		return fmt.Errorf("failed to delete speech %s: %w", speechID, err)
	}
	return nil
}

// UpdateSpeech merges scalar edits into a speech document. Returns ErrNotFound
// when the speech (or its owner) does not exist.
func (r *Repository) UpdateSpeech(ctx context.Context, userID, speechID string, update models.SpeechUpdate) error {
	oid, ok := parseID(userID)
	if !ok {
		return fmt.Errorf("failed to update speech %s: %w", speechID, ErrNotFound)
	}
	sid, ok := parseID(speechID)
	if !ok {
		return fmt.Errorf("failed to update speech %s: %w", speechID, ErrNotFound)
	}
	set := bson.M{}
	if update.Transcript != nil {
		set["transcript"] = *update.Transcript
	}
	if update.SpeechType != nil {
		set["speechType"] = *update.SpeechType
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.db.Collection(SpeechHistoryCollection).UpdateOne(ctx, bson.M{"_id": sid, "userId": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update speech %s: %w", speechID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update speech %s: %w", speechID, ErrNotFound)
	}
	return nil
}

// ── Gamification ───────────────────────────────────────────────────────

func (r *Repository) GetGamification(ctx context.Context, userID string) (*models.Gamification, error) {
	oid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	var doc bson.M
	err := r.db.Collection(GamificationCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gamification for user %s: %w", userID, err)
	}
	gam := models.GamificationFromDoc(userID, doc)
	return &gam, nil
}

// UpsertGamification merges the supplied fields into the user's gamification
// document, creating it if the user has none yet.
func (r *Repository) UpsertGamification(ctx context.Context, userID string, update models.GamificationUpdate) error {
	oid, ok := parseID(userID)
	if !ok {
		return fmt.Errorf("failed to update gamification for user %s: %w", userID, ErrNotFound)
	}
	set := bson.M{"userId": oid}
	if update.Level != nil {
		set["level"] = *update.Level
	}
	if update.CurrentXP != nil {
		set["currentXP"] = *update.CurrentXP
	}
	if update.TotalXP != nil {
		set["totalXP"] = *update.TotalXP
	}
	if update.CurrentStreak != nil {
		set["currentStreak"] = *update.CurrentStreak
	}
	if update.LongestStreak != nil {
		set["longestStreak"] = *update.LongestStreak
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.db.Collection(GamificationCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to update gamification for user %s: %w", userID, err)
	}
	return nil
}

func (r *Repository) DeleteGamification(ctx context.Context, userID string) error {
	oid, ok := parseID(userID)
	if !ok {
		return nil
	}
	_, err := r.db.Collection(GamificationCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete gamification for user %s: %w", userID, err)
	}
	return nil
}

// ── Badges ─────────────────────────────────────────────────────────────

func (r *Repository) GetBadgeProgress(ctx context.Context, userID string) (*models.BadgeProgress, error) {
	oid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	var doc bson.M
	err := r.db.Collection(BadgesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges for user %s: %w", userID, err)
	}
	progress := models.BadgeProgressFromDoc(userID, doc)
	return &progress, nil
}

// UpdateBadgeProgress replaces the user's badge sequence. The derived
// unlocked/total counts are recomputed here from the sequence; callers never
// supply them. Returns ErrNotFound when the user has no badge document, so the
// recomputed progress is only ever handed back once it has been persisted.
func (r *Repository) UpdateBadgeProgress(ctx context.Context, userID string, badges []models.Badge) (*models.BadgeProgress, error) {
	oid, ok := parseID(userID)
	if !ok {
		return nil, fmt.Errorf("failed to update badges for user %s: %w", userID, ErrNotFound)
	}
	progress := models.NewBadgeProgress(userID, badges)
	res, err := r.db.Collection(BadgesCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"userId":         oid,
		"badges":         progress.Badges,
		"unlockedBadges": progress.UnlockedBadges,
		"totalBadges":    progress.TotalBadges,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to update badges for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("failed to update badges for user %s: %w", userID, ErrNotFound)
	}
	return &progress, nil
}

func (r *Repository) DeleteBadgeProgress(ctx context.Context, userID string) error {
	oid, ok := parseID(userID)
	if !ok {
		return nil
	}
	_, err := r.db.Collection(BadgesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete badges for user %s: %w", userID, err)
	}
	return nil
}
