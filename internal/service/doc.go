// Package service implements the business logic layer of the Idea Hub API.
//
// Services hold the access rules (who may read or change an idea, a
// comment or a collaborator list), validation that needs the store, and
// the orchestration of repository calls. Handlers never talk to
// repositories directly.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct or the repositories it needs
//   - Each service declares the repository interface it consumes, so tests use func-field mocks
//   - Errors are sentinel values from errors.go; handler.MapServiceError turns them into HTTP problems
//   - Ids may arrive bare ("abc") or qualified ("idea:abc"); comparisons go through sameID
//
// # Example Usage
//
//	comments := NewCommentService(CommentServiceConfig{
//	    Repo:     commentRepository,
//	    IdeaRepo: ideaRepository,
//	    Notifier: notificationService,
//	})
//	tree, err := comments.ListTree(ctx, ideaID, viewerID)
package service
