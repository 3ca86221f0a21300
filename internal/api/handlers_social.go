// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"

	"github.com/tomtom215/contravento/internal/models"
)

// Follow makes the caller follow a user.
//
//	@Summary	Follow a user
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	path		string	true	"Username"
//	@Success	201			{object}	Response
//	@Failure	400			{object}	Response
//	@Failure	409			{object}	Response
//	@Router		/users/{username}/follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Follow(r.Context(), viewerID(r), urlParam(r, "username")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, messageResponse{Message: "Ahora sigues a " + urlParam(r, "username")})
}

// Unfollow removes a follow edge.
//
//	@Summary	Unfollow a user
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	Response
//	@Failure	404			{object}	Response
//	@Router		/users/{username}/follow [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unfollow(r.Context(), viewerID(r), urlParam(r, "username")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Has dejado de seguir a " + urlParam(r, "username")})
}

// Followers lists who follows a user.
//
//	@Summary	List followers
//	@Tags		social
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Param		page		query		int		false	"Page"
//	@Param		limit		query		int		false	"Page size"
//	@Success	200			{object}	Response{data=[]models.FollowEntry}
//	@Router		/users/{username}/followers [get]
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	list, pg, err := h.svc.Followers(r.Context(), urlParam(r, "username"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, list, pg)
}

// Following lists who a user follows.
//
//	@Summary	List followed users
//	@Tags		social
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Param		page		query		int		false	"Page"
//	@Param		limit		query		int		false	"Page size"
//	@Success	200			{object}	Response{data=[]models.FollowEntry}
//	@Router		/users/{username}/following [get]
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	list, pg, err := h.svc.Following(r.Context(), urlParam(r, "username"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, list, pg)
}

// ListComments lists a published trip's comments, oldest first.
//
//	@Summary	List comments
//	@Tags		social
//	@Produce	json
//	@Param		id		path		string	true	"Trip ID"
//	@Param		page	query		int		false	"Page"
//	@Param		limit	query		int		false	"Page size"
//	@Success	200		{object}	Response{data=[]models.Comment}
//	@Router		/trips/{id}/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	list, pg, err := h.svc.ListComments(r.Context(), urlParam(r, "id"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, list, pg)
}

// AddComment comments on a published trip.
//
//	@Summary	Add a comment
//	@Tags		social
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Trip ID"
//	@Param		body	body		models.CommentInput	true	"Comment"
//	@Success	201		{object}	Response{data=models.Comment}
//	@Failure	429		{object}	Response
//	@Router		/trips/{id}/comments [post]
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.svc.AddComment(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, c)
}

// EditComment changes a comment's content. Author only.
//
//	@Summary	Edit a comment
//	@Tags		social
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Comment ID"
//	@Param		body	body		models.CommentInput	true	"Comment"
//	@Success	200		{object}	Response{data=models.Comment}
//	@Router		/comments/{id} [put]
func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.svc.EditComment(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, c)
}

// DeleteComment removes a comment. Allowed for its author and the trip
// owner.
//
//	@Summary	Delete a comment
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Comment ID"
//	@Success	200	{object}	Response
//	@Router		/comments/{id} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Comentario eliminado"})
}

// Like likes a published trip.
//
//	@Summary	Like a trip
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Trip ID"
//	@Success	201	{object}	Response
//	@Failure	409	{object}	Response
//	@Router		/trips/{id}/like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Like(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, messageResponse{Message: "Te gusta este viaje"})
}

// Unlike removes the caller's like.
//
//	@Summary	Unlike a trip
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response
//	@Router		/trips/{id}/like [delete]
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unlike(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Ya no te gusta este viaje"})
}

// ListLikes lists who liked a published trip.
//
//	@Summary	List likes
//	@Tags		social
//	@Produce	json
//	@Param		id		path		string	true	"Trip ID"
//	@Param		page	query		int		false	"Page"
//	@Param		limit	query		int		false	"Page size"
//	@Success	200		{object}	Response{data=[]models.Like}
//	@Router		/trips/{id}/likes [get]
func (h *Handler) ListLikes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	list, pg, err := h.svc.ListLikes(r.Context(), urlParam(r, "id"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, list, pg)
}

// Feed lists published trips of the caller and the users they follow.
//
//	@Summary	Activity feed
//	@Tags		social
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page	query		int	false	"Page"
//	@Param		limit	query		int	false	"Page size"
//	@Success	200		{object}	Response{data=[]models.ActivityItem}
//	@Router		/feed [get]
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	items, pg, err := h.svc.Feed(r.Context(), viewerID(r), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, items, pg)
}
