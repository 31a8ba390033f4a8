package recruit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerInitiallyEmpty(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Current())
}

func TestManagerRefresh(t *testing.T) {
	m := NewManager()

	ds, err := m.Refresh([]byte(testCharTable), []byte(testGachaTable))
	assert.NoError(t, err)
	assert.NotNil(t, ds)
	assert.Same(t, ds, m.Current())
	assert.NotEmpty(t, ds.Operators)
}

func TestManagerRefreshKeepsOldSnapshotOnError(t *testing.T) {
	m := NewManager()

	old, err := m.Refresh([]byte(testCharTable), []byte(testGachaTable))
	assert.NoError(t, err)

	_, err = m.Refresh([]byte("not json"), []byte(testGachaTable))
	assert.Error(t, err)

	// 刷新失败时旧快照保持可用
	assert.Same(t, old, m.Current())
}
