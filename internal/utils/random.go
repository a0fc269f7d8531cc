package utils

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

var programGenres = []string{
	"新闻", "体育", "财经", "综艺", "科教", "戏曲", "电影", "少儿", "纪录", "音乐",
}
var programSuffixes = []string{
	"联播", "快报", "直播间", "大讲堂", "之夜", "零距离", "周刊", "面对面", "探索", "剧场",
}

func GenerateRandomProgramTitle(rng *rand.Rand) string {
	return programGenres[rng.Intn(len(programGenres))] + programSuffixes[rng.Intn(len(programSuffixes))]
}

// GenerateProgramCode 用拼音生成节目代码，例如 "新闻联播" -> "xin-wen-lian-bo"
// 非汉字部分按原样保留
func GenerateProgramCode(title string) string {
	parts := []string{}
	for _, word := range strings.Fields(title) {
		var plain strings.Builder
		for _, r := range word {
			py := pinyin.LazyConvert(string(r), nil)
			if len(py) == 0 {
				plain.WriteRune(r)
				continue
			}
			if plain.Len() > 0 {
				parts = append(parts, strings.ToLower(plain.String()))
				plain.Reset()
			}
			parts = append(parts, py[0])
		}
		if plain.Len() > 0 {
			parts = append(parts, strings.ToLower(plain.String()))
		}
	}
	return strings.Join(parts, "-")
}

// GenerateRandomRating 生成 [1, 10] 之间保留一位小数的评分
func GenerateRandomRating(rng *rand.Rand) float64 {
	return float64(rng.Intn(91)+10) / 10
}

func GenerateRandomProgram(rng *rand.Rand) *domain.Program {
	title := GenerateRandomProgramTitle(rng)
	return &domain.Program{
		Code:   GenerateProgramCode(title) + "-" + GenerateRandomID(rng, 0, 3),
		Title:  title,
		Rating: GenerateRandomRating(rng),
	}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyz")
var digits = "0123456789"

func GenerateRandomID(rng *rand.Rand, letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rng.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rng.Intn(len(digits))])
		}
	}
	return string(random_id)
}
