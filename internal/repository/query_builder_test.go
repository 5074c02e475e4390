package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func TestQueryBuilderAliasesColumns(t *testing.T) {
	builder := NewQueryBuilder()
	builder.AddCondition("asset_id", 2)
	builder.AddCondition("expended", true)

	assert.True(t, builder.HasConditions())

	conditions := builder.BuildConditions(map[string]string{
		"asset_id": "e.asset_id",
	})

	assert.Equal(t, goqu.Ex{"e.asset_id": 2, "expended": true}, conditions)
}

func TestQueryBuilderEmpty(t *testing.T) {
	builder := NewQueryBuilder()

	assert.False(t, builder.HasConditions())
	assert.Empty(t, builder.BuildConditions(nil))
}
