package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	// 去首尾空白、压缩连续空白、去结尾句点
	assert.Equal(t, "Hello world", NormalizeText("  Hello   world."))
	assert.Equal(t, "Hello world", NormalizeText("Hello\t\nworld"))
	assert.Equal(t, "Hello world", NormalizeText("Hello world..."))
	assert.Equal(t, "سلام دنیا", NormalizeText("  سلام \n دنیا.  "))
	assert.Equal(t, "", NormalizeText("   "))
	assert.Equal(t, "", NormalizeText("..."))

	// 只去结尾的句点，中间的保留
	assert.Equal(t, "a.b", NormalizeText("a.b."))

	// 句点前有空格时也不残留结尾空白
	assert.Equal(t, "Hello world", NormalizeText("Hello world ."))
	assert.Equal(t, "Hello world", NormalizeText("Hello world . ."))
}

func TestNormalizeText_WhitespaceVariantsEqual(t *testing.T) {
	variants := []string{
		"قیمت مناسب بود",
		"  قیمت مناسب بود  ",
		"قیمت  مناسب\tبود",
		"قیمت مناسب بود.",
		"قیمت\nمناسب بود..",
		"قیمت مناسب بود .",
	}
	want := NormalizeText(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, NormalizeText(v), "variant: %q", v)
	}
}

func TestNormalizeText_Pure(t *testing.T) {
	in := "  some   text. "
	assert.Equal(t, NormalizeText(in), NormalizeText(in))
}

func TestGenerateFingerprint_OrderIndependent(t *testing.T) {
	a := GenerateFingerprint([]string{"اول", "دوم", "سوم"})
	b := GenerateFingerprint([]string{"سوم", "اول", "دوم"})
	c := GenerateFingerprint([]string{"دوم", "سوم", "اول"})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestGenerateFingerprint_NormalizesEachText(t *testing.T) {
	a := GenerateFingerprint([]string{"a.", "b"})
	b := GenerateFingerprint([]string{"b", "a"})
	assert.Equal(t, a, b)

	// 规范化不做大小写折叠，内容不同则指纹不同
	c := GenerateFingerprint([]string{"b", "A"})
	assert.NotEqual(t, a, c)
}

func TestGenerateFingerprint_KnownDigest(t *testing.T) {
	// fingerprint(["b","a"]) == sha256("ab")
	sum := sha256.Sum256([]byte("ab"))
	assert.Equal(t, hex.EncodeToString(sum[:]), GenerateFingerprint([]string{"b", "a"}))
}

func TestGenerateFingerprint_EmptyList(t *testing.T) {
	sum := sha256.Sum256(nil)
	assert.Equal(t, hex.EncodeToString(sum[:]), GenerateFingerprint(nil))
}

func TestTextHash_StableAcrossWhitespace(t *testing.T) {
	assert.Equal(t, TextHash("Hello   world."), TextHash(" Hello world "))
	assert.NotEqual(t, TextHash("Hello world"), TextHash("hello world"))
	assert.Len(t, TextHash("x"), 64)
}
