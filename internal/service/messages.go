package service

import (
	"fmt"
	"strings"

	"github.com/NirojT/AspBlogBacken/internal/models"
)

func commentMessage(author *models.User, blog *models.Blog, content string) string {
	if blog.OwnedBy(author.ID) {
		return fmt.Sprintf("You have commented on your %s comment", content)
	}
	return fmt.Sprintf("%s has commented on %s comment as %s", author.DisplayName(), blog.Title, content)
}

func replyMessage(replier *models.User, parent *models.Comment, content string) string {
	if parent.UserID == replier.ID {
		return fmt.Sprintf("You have replied to your own comment: '%s'.", content)
	}
	return fmt.Sprintf("%s has replied to the comment: '%s'.", replier.DisplayName(), content)
}

func blogReactionMessage(reactor *models.User, blog *models.Blog, kind string) string {
	if blog.OwnedBy(reactor.ID) {
		return fmt.Sprintf("You have %s in blog of title %s", pastTense(kind), blog.Title)
	}
	return fmt.Sprintf("%s has %s in blog of title %s", reactor.DisplayName(), pastTense(kind), blog.Title)
}

func commentReactionMessage(reactor *models.User, comment *models.Comment, blogTitle, kind string) string {
	if comment.UserID == reactor.ID {
		return fmt.Sprintf("You have %s in comment of %s", pastTense(kind), blogTitle)
	}
	return fmt.Sprintf("%s has %s in comment of %s", reactor.DisplayName(), pastTense(kind), blogTitle)
}

// pastTense turns a reaction kind into its verb form: upvote -> upvoted.
func pastTense(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case k == "":
		return "reacted"
	case strings.HasSuffix(k, "ed"):
		return k
	case strings.HasSuffix(k, "e"):
		return k + "d"
	default:
		return k + "ed"
	}
}

// kindLabel bounds metric label cardinality for free-form kinds.
func kindLabel(r *models.Reaction) string {
	switch {
	case r.IsUpvote():
		return models.ReactionUpvote
	case r.IsDownvote():
		return models.ReactionDownvote
	default:
		return "other"
	}
}
