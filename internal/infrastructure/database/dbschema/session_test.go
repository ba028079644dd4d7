package dbschema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gormTag(t *testing.T, schema any, field string) string {
	t.Helper()
	f, ok := reflect.TypeOf(schema).FieldByName(field)
	require.True(t, ok, "field %s not found", field)
	return f.Tag.Get("gorm")
}

func TestSessionSurvivesModelDeletion(t *testing.T) {
	// ModelID must be nullable and the FK must null it rather than cascade,
	// so removing a catalog entry leaves its sessions intact.
	modelID, ok := reflect.TypeOf(Session{}).FieldByName("ModelID")
	require.True(t, ok)
	assert.Equal(t, reflect.Ptr, modelID.Type.Kind())

	assert.Contains(t, gormTag(t, Session{}, "Model"), "OnDelete:SET NULL")
}

func TestMessagesCascadeWithSession(t *testing.T) {
	assert.Contains(t, gormTag(t, Session{}, "Messages"), "OnDelete:CASCADE")
	assert.Contains(t, gormTag(t, Message{}, "Session"), "OnDelete:CASCADE")
}

func TestUserUniqueOnIssuerAndSubject(t *testing.T) {
	assert.Contains(t, gormTag(t, User{}, "Issuer"), "uniqueIndex:ux_users_issuer_subject")
	assert.Contains(t, gormTag(t, User{}, "Subject"), "uniqueIndex:ux_users_issuer_subject")
}
