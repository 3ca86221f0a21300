// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/validation"
)

// Follow makes followerID follow username.
func (s *Service) Follow(ctx context.Context, followerID, username string) error {
	target, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return lookupErr("get user", err, msgUserNotFound)
	}
	if target.ID == followerID {
		return domainErr(CodeCannotFollowSelf, "username", "No puedes seguirte a ti mismo")
	}

	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.CreateFollow(ctx, followerID, target.ID, s.now()); err != nil {
			return err
		}
		var err error
		evs, err = recalculate(ctx, tx, target.ID, followerID)
		return err
	})
	if errors.Is(err, database.ErrConflict) {
		return conflict(CodeAlreadyFollowing, "Ya sigues a este usuario")
	}
	if err != nil {
		return internal("follow", err)
	}

	follow := events.New(events.TopicFollow, events.Event{
		ActorID:       followerID,
		ActorUsername: s.username(ctx, followerID),
		RecipientID:   target.ID,
	})
	s.unlocked(ctx, append([]events.Event{follow}, evs...))
	return nil
}

// Unfollow removes the edge followerID -> username.
func (s *Service) Unfollow(ctx context.Context, followerID, username string) error {
	target, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return lookupErr("get user", err, msgUserNotFound)
	}

	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.DeleteFollow(ctx, followerID, target.ID); err != nil {
			return err
		}
		var err error
		evs, err = recalculate(ctx, tx, target.ID, followerID)
		return err
	})
	if errors.Is(err, database.ErrNotFound) {
		return &Error{Kind: KindNotFound, Code: CodeNotFollowing, Message: "No sigues a este usuario"}
	}
	if err != nil {
		return internal("unfollow", err)
	}
	s.unlocked(ctx, evs)
	return nil
}

// Followers lists who follows username.
func (s *Service) Followers(ctx context.Context, username string, p models.PageRequest) ([]models.FollowEntry, models.Pagination, error) {
	return s.follows(ctx, username, p, true)
}

// Following lists whom username follows.
func (s *Service) Following(ctx context.Context, username string, p models.PageRequest) ([]models.FollowEntry, models.Pagination, error) {
	return s.follows(ctx, username, p, false)
}

func (s *Service) follows(ctx context.Context, username string, p models.PageRequest, followers bool) ([]models.FollowEntry, models.Pagination, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, models.Pagination{}, lookupErr("get user", err, msgUserNotFound)
	}
	list := s.db.ListFollowing
	if followers {
		list = s.db.ListFollowers
	}
	entries, total, err := list(ctx, u.ID, p)
	if err != nil {
		return nil, models.Pagination{}, internal("list follows", err)
	}
	return entries, models.NewPagination(p, total), nil
}

// AddComment comments on a published trip.
func (s *Service) AddComment(ctx context.Context, userID, tripID string, in models.CommentInput) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	trip, err := s.publishedTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Comment{
		ID:        uuid.NewString(),
		TripID:    tripID,
		UserID:    userID,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.InsertComment(ctx, c); err != nil {
		return nil, internal("insert comment", err)
	}
	out, err := s.db.GetComment(ctx, c.ID)
	if err != nil {
		return nil, internal("get comment", err)
	}

	s.publish(ctx, events.New(events.TopicComment, events.Event{
		ActorID:       userID,
		ActorUsername: out.Username,
		RecipientID:   trip.UserID,
		TripID:        trip.ID,
		TripTitle:     trip.Title,
		CommentID:     c.ID,
	}))
	return out, nil
}

// EditComment replaces a comment's content. Only the author may edit.
func (s *Service) EditComment(ctx context.Context, userID, commentID string, in models.CommentInput) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	c, err := s.db.GetComment(ctx, commentID)
	if err != nil {
		return nil, lookupErr("get comment", err, msgCommentNotFound)
	}
	if c.UserID != userID {
		return nil, forbidden("Solo el autor puede editar este comentario")
	}
	if err := s.db.UpdateCommentContent(ctx, commentID, in.Content, s.now()); err != nil {
		return nil, lookupErr("update comment", err, msgCommentNotFound)
	}
	c, err = s.db.GetComment(ctx, commentID)
	if err != nil {
		return nil, lookupErr("get comment", err, msgCommentNotFound)
	}
	return c, nil
}

// DeleteComment removes a comment. The author and the trip owner may
// delete it.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	c, err := s.db.GetComment(ctx, commentID)
	if err != nil {
		return lookupErr("get comment", err, msgCommentNotFound)
	}
	if c.UserID != userID {
		trip, err := s.db.GetTrip(ctx, c.TripID)
		if err != nil {
			return lookupErr("get trip", err, msgTripNotFound)
		}
		if trip.UserID != userID {
			return forbidden("No tienes permiso para eliminar este comentario")
		}
	}
	if err := s.db.DeleteComment(ctx, commentID); err != nil {
		return lookupErr("delete comment", err, msgCommentNotFound)
	}
	return nil
}

// ListComments lists the comments of a published trip, oldest first.
func (s *Service) ListComments(ctx context.Context, tripID string, p models.PageRequest) ([]models.Comment, models.Pagination, error) {
	if _, err := s.publishedTrip(ctx, tripID); err != nil {
		return nil, models.Pagination{}, err
	}
	list, total, err := s.db.ListComments(ctx, tripID, p)
	if err != nil {
		return nil, models.Pagination{}, internal("list comments", err)
	}
	return list, models.NewPagination(p, total), nil
}

// Like likes a published trip. Owners may like their own trips.
func (s *Service) Like(ctx context.Context, userID, tripID string) error {
	trip, err := s.publishedTrip(ctx, tripID)
	if err != nil {
		return err
	}
	l := &models.Like{ID: uuid.NewString(), TripID: tripID, UserID: userID, CreatedAt: s.now()}
	if err := s.db.InsertLike(ctx, l); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return conflict(CodeAlreadyLiked, "Ya te gusta este viaje")
		}
		return internal("insert like", err)
	}

	s.publish(ctx, events.New(events.TopicLike, events.Event{
		ActorID:       userID,
		ActorUsername: s.username(ctx, userID),
		RecipientID:   trip.UserID,
		TripID:        trip.ID,
		TripTitle:     trip.Title,
	}))
	return nil
}

// Unlike removes userID's like.
func (s *Service) Unlike(ctx context.Context, userID, tripID string) error {
	if _, err := s.publishedTrip(ctx, tripID); err != nil {
		return err
	}
	if err := s.db.DeleteLike(ctx, tripID, userID); err != nil {
		return lookupErr("delete like", err, "No te gusta este viaje")
	}
	return nil
}

// ListLikes lists who liked a published trip, newest first.
func (s *Service) ListLikes(ctx context.Context, tripID string, p models.PageRequest) ([]models.Like, models.Pagination, error) {
	if _, err := s.publishedTrip(ctx, tripID); err != nil {
		return nil, models.Pagination{}, err
	}
	list, total, err := s.db.ListLikes(ctx, tripID, p)
	if err != nil {
		return nil, models.Pagination{}, internal("list likes", err)
	}
	return list, models.NewPagination(p, total), nil
}

// Feed lists the published trips of userID and of everyone userID
// follows, newest first.
func (s *Service) Feed(ctx context.Context, userID string, p models.PageRequest) ([]models.ActivityItem, models.Pagination, error) {
	trips, total, err := s.db.FeedTrips(ctx, userID, p)
	if err != nil {
		return nil, models.Pagination{}, internal("feed", err)
	}

	ids := make([]string, 0, len(trips))
	seen := make(map[string]bool)
	for _, t := range trips {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	actors, err := s.db.GetPublicUsers(ctx, ids)
	if err != nil {
		return nil, models.Pagination{}, internal("feed actors", err)
	}

	items := make([]models.ActivityItem, len(trips))
	for i, t := range trips {
		items[i] = models.ActivityItem{
			Type:  models.ActivityTripPublished,
			Actor: actors[t.UserID],
			Trip:  t,
		}
		if t.PublishedAt != nil {
			items[i].OccurredAt = *t.PublishedAt
		}
	}
	return items, models.NewPagination(p, total), nil
}

// username resolves a user id for event payloads. Lookup failures leave
// it empty.
func (s *Service) username(ctx context.Context, id string) string {
	u, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return ""
	}
	return u.Username
}
