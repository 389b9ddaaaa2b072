package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticle_Publish(t *testing.T) {
	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	article := Article{Status: ArticleStatusDraft}
	assert.False(t, article.IsPublished())

	article.Publish(first)
	assert.True(t, article.IsPublished())
	if assert.NotNil(t, article.PublishedAt) {
		assert.Equal(t, first, *article.PublishedAt)
	}

	// Unpublish and publish again: the first publication time is kept.
	article.Status = ArticleStatusDraft
	article.Publish(later)
	assert.Equal(t, first, *article.PublishedAt)
}

func TestStatuses_Valid(t *testing.T) {
	assert.True(t, ArticleStatusDraft.Valid())
	assert.True(t, ArticleStatusPublished.Valid())
	assert.False(t, ArticleStatus("archived").Valid())

	assert.True(t, CommentStatusPending.Valid())
	assert.True(t, CommentStatusApproved.Valid())
	assert.True(t, CommentStatusSpam.Valid())
	assert.False(t, CommentStatus("deleted").Valid())

	assert.True(t, SubscriberStatusActive.Valid())
	assert.True(t, SubscriberStatusUnsubscribed.Valid())
	assert.False(t, SubscriberStatus("bounced").Valid())
}

func TestCategory_Validate(t *testing.T) {
	assert.NoError(t, (&Category{Name: "设计"}).Validate())
	assert.Error(t, (&Category{Name: "   "}).Validate())
	assert.Error(t, (&Category{Name: string(make([]rune, 51))}).Validate())
}

func TestSetting_Validate(t *testing.T) {
	assert.NoError(t, (&Setting{Group: "site", Key: "title"}).Validate())
	assert.Error(t, (&Setting{Group: "Site", Key: "title"}).Validate())
	assert.Error(t, (&Setting{Group: "site", Key: "a-b"}).Validate())
	assert.Error(t, (&Setting{Group: "", Key: "title"}).Validate())
}
