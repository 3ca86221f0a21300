// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"time"

	"github.com/tomtom215/contravento/internal/models"
)

// CreateFollow inserts the edge follower -> following. An existing edge
// yields ErrConflict and is left untouched.
func (q *Queries) CreateFollow(ctx context.Context, followerID, followingID string, at time.Time) error {
	following, err := q.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if following {
		return ErrConflict
	}
	_, err = q.exec(ctx, "follows",
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)`,
		followerID, followingID, at)
	return wrapWriteErr(err)
}

// DeleteFollow removes the edge, or returns ErrNotFound.
func (q *Queries) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return q.execAffected(ctx, "follows",
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
}

// IsFollowing reports whether the edge exists.
func (q *Queries) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	n, err := q.count(ctx, "follows",
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	return n > 0, err
}

// ListFollowers returns the users following userID, most recent first.
func (q *Queries) ListFollowers(ctx context.Context, userID string, p models.PageRequest) ([]models.FollowEntry, int, error) {
	return q.listFollows(ctx, userID, p, "following_id", "follower_id")
}

// ListFollowing returns the users userID follows, most recent first.
func (q *Queries) ListFollowing(ctx context.Context, userID string, p models.PageRequest) ([]models.FollowEntry, int, error) {
	return q.listFollows(ctx, userID, p, "follower_id", "following_id")
}

// listFollows pages over follows where matchCol = userID and joins the user
// in otherCol. Both column names are constants from the callers above.
func (q *Queries) listFollows(ctx context.Context, userID string, p models.PageRequest, matchCol, otherCol string) ([]models.FollowEntry, int, error) {
	total, err := q.count(ctx, "follows", `SELECT COUNT(*) FROM follows WHERE `+matchCol+` = ?`, userID)
	if err != nil {
		return nil, 0, err
	}

	entries := []models.FollowEntry{}
	err = q.selectRows(ctx, "follows", &entries, `
		SELECT u.id, u.username, u.full_name, u.profile_photo_url, f.created_at AS followed_at
		FROM follows f JOIN users u ON u.id = f.`+otherCol+`
		WHERE f.`+matchCol+` = ?
		ORDER BY f.created_at DESC, u.username LIMIT ? OFFSET ?`,
		userID, p.Limit, p.Offset())
	return entries, total, err
}

const commentSelect = `
	SELECT c.id, c.trip_id, c.user_id, u.username, c.content, c.is_edited, c.created_at, c.updated_at
	FROM comments c JOIN users u ON u.id = c.user_id`

// InsertComment inserts a comment.
func (q *Queries) InsertComment(ctx context.Context, c *models.Comment) error {
	_, err := q.namedExec(ctx, "comments", `
		INSERT INTO comments (id, trip_id, user_id, content, is_edited, created_at, updated_at)
		VALUES (:id, :trip_id, :user_id, :content, :is_edited, :created_at, :updated_at)`, c)
	return err
}

// GetComment returns a comment with its author's username.
func (q *Queries) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := q.get(ctx, "comments", &c, commentSelect+` WHERE c.id = ?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCommentContent replaces the content and marks the comment edited.
func (q *Queries) UpdateCommentContent(ctx context.Context, id, content string, at time.Time) error {
	return q.execAffected(ctx, "comments",
		`UPDATE comments SET content = ?, is_edited = TRUE, updated_at = ? WHERE id = ?`, content, at, id)
}

// DeleteComment hard-deletes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id string) error {
	return q.execAffected(ctx, "comments", `DELETE FROM comments WHERE id = ?`, id)
}

// ListComments returns a trip's comments oldest first.
func (q *Queries) ListComments(ctx context.Context, tripID string, p models.PageRequest) ([]models.Comment, int, error) {
	total, err := q.count(ctx, "comments", `SELECT COUNT(*) FROM comments WHERE trip_id = ?`, tripID)
	if err != nil {
		return nil, 0, err
	}
	comments := []models.Comment{}
	err = q.selectRows(ctx, "comments", &comments,
		commentSelect+` WHERE c.trip_id = ? ORDER BY c.created_at, c.id LIMIT ? OFFSET ?`,
		tripID, p.Limit, p.Offset())
	return comments, total, err
}

// InsertLike records a like. A second like by the same user yields
// ErrConflict.
func (q *Queries) InsertLike(ctx context.Context, l *models.Like) error {
	liked, err := q.HasLiked(ctx, l.TripID, l.UserID)
	if err != nil {
		return err
	}
	if liked {
		return ErrConflict
	}
	_, err = q.namedExec(ctx, "likes",
		`INSERT INTO likes (id, trip_id, user_id, created_at) VALUES (:id, :trip_id, :user_id, :created_at)`, l)
	return wrapWriteErr(err)
}

// DeleteLike removes a like, or returns ErrNotFound.
func (q *Queries) DeleteLike(ctx context.Context, tripID, userID string) error {
	return q.execAffected(ctx, "likes", `DELETE FROM likes WHERE trip_id = ? AND user_id = ?`, tripID, userID)
}

// HasLiked reports whether userID likes tripID.
func (q *Queries) HasLiked(ctx context.Context, tripID, userID string) (bool, error) {
	n, err := q.count(ctx, "likes", `SELECT COUNT(*) FROM likes WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	return n > 0, err
}

// ListLikes returns a trip's likes most recent first.
func (q *Queries) ListLikes(ctx context.Context, tripID string, p models.PageRequest) ([]models.Like, int, error) {
	total, err := q.count(ctx, "likes", `SELECT COUNT(*) FROM likes WHERE trip_id = ?`, tripID)
	if err != nil {
		return nil, 0, err
	}
	likes := []models.Like{}
	err = q.selectRows(ctx, "likes", &likes, `
		SELECT l.id, l.trip_id, l.user_id, u.username, l.created_at
		FROM likes l JOIN users u ON u.id = l.user_id
		WHERE l.trip_id = ? ORDER BY l.created_at DESC, l.id LIMIT ? OFFSET ?`,
		tripID, p.Limit, p.Offset())
	return likes, total, err
}
