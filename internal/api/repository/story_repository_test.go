package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOrderClauseWhitelist(t *testing.T) {
	assert.Equal(t, "importance_score DESC, last_updated DESC", listOrderClause("importance"))
	assert.Equal(t, "freshness_score DESC, last_updated DESC", listOrderClause("freshness"))
	assert.Equal(t, "last_updated DESC", listOrderClause("last_updated"))
	assert.Equal(t, "first_seen DESC", listOrderClause("first_seen"))
}

func TestListOrderClauseRejectsUnknownValues(t *testing.T) {
	assert.Equal(t, "importance_score DESC, last_updated DESC", listOrderClause(""))
	assert.Equal(t, "importance_score DESC, last_updated DESC", listOrderClause("id; DROP TABLE stories"))
}
