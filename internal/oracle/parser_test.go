package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONCandidate(t *testing.T) {
	t.Run("裸JSON原样返回", func(t *testing.T) {
		got, err := extractJSONCandidate(`{"winner":"fighterA"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"winner":"fighterA"}`, got)
	})

	t.Run("剥离markdown围栏", func(t *testing.T) {
		got, err := extractJSONCandidate("```json\n{\"winner\":\"fighterB\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"winner":"fighterB"}`, got)
	})

	t.Run("剥离无语言标记的围栏", func(t *testing.T) {
		got, err := extractJSONCandidate("```\n{\"ok\":true}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, got)
	})

	t.Run("容忍前后缀噪声", func(t *testing.T) {
		got, err := extractJSONCandidate("Here is the result:\n{\"ok\":true}\nHope this helps!")
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, got)
	})

	t.Run("空响应报错", func(t *testing.T) {
		_, err := extractJSONCandidate("   ")
		assert.Error(t, err)
	})

	t.Run("没有JSON对象报错", func(t *testing.T) {
		_, err := extractJSONCandidate("I cannot fulfill this request.")
		assert.Error(t, err)
	})
}
