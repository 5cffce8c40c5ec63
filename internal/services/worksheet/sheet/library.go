package sheet

import (
	"strconv"
	"strings"
)

// Poem is a library entry shown under classical poems.
type Poem struct {
	Title   string
	Author  string
	Content string
}

// CharacterSet is a library entry shown under basic practice.
type CharacterSet struct {
	Category string
	Content  string
}

var poems = []Poem{
	{Title: "静夜思", Author: "李白", Content: "床前明月光，疑是地上霜。举头望明月，低头思故乡。"},
	{Title: "登鹳雀楼", Author: "王之涣", Content: "白日依山尽，黄河入海流。欲穷千里目，更上一层楼。"},
	{Title: "春晓", Author: "孟浩然", Content: "春眠不觉晓，处处闻啼鸟。夜来风雨声，花落知多少。"},
	{Title: "江雪", Author: "柳宗元", Content: "千山鸟飞绝，万径人踪灭。孤舟蓑笠翁，独钓寒江雪。"},
	{Title: "悯农", Author: "李绅", Content: "锄禾日当午，汗滴禾下土。谁知盘中餐，粒粒皆辛苦。"},
	{Title: "咏鹅", Author: "骆宾王", Content: "鹅鹅鹅，曲项向天歌。白毛浮绿水，红掌拨清波。"},
	{Title: "早发白帝城", Author: "李白", Content: "朝辞白帝彩云间，千里江陵一日还。两岸猿声啼不住，轻舟已过万重山。"},
	{Title: "水调歌头", Author: "苏轼", Content: "明月几时有？把酒问青天。不知天上宫阙，今夕是何年。"},
}

var characterSets = []CharacterSet{
	{Category: "数字", Content: "一二三四五六七八九十百千万"},
	{Category: "五行", Content: "金木水火土"},
	{Category: "自然", Content: "日月星辰风雨雷电山川河流"},
	{Category: "永字八法", Content: "永"},
	{Category: "常用偏旁", Content: "亻彳讠氵忄辶阝卩"},
}

// Poems returns every poem in library order.
func Poems() []Poem {
	return append([]Poem(nil), poems...)
}

// CharacterSets returns every basic set in library order.
func CharacterSets() []CharacterSet {
	return append([]CharacterSet(nil), characterSets...)
}

// SearchPoems returns poems whose title, author or content contains query.
// An empty query returns the whole library.
func SearchPoems(query string) []Poem {
	query = strings.TrimSpace(query)
	if query == "" {
		return Poems()
	}
	var matches []Poem
	for _, p := range poems {
		if strings.Contains(p.Title, query) || strings.Contains(p.Author, query) || strings.Contains(p.Content, query) {
			matches = append(matches, p)
		}
	}
	return matches
}

// PoemByContent finds the poem whose text is exactly content.
func PoemByContent(content string) (Poem, bool) {
	for _, p := range poems {
		if p.Content == content {
			return p, true
		}
	}
	return Poem{}, false
}

// LibraryEntry resolves a library selection of the form "poem:<index>" or
// "set:<index>" to its content.
func LibraryEntry(key string) (string, bool) {
	kind, index, ok := strings.Cut(key, ":")
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return "", false
	}
	switch kind {
	case "poem":
		if n < len(poems) {
			return poems[n].Content, true
		}
	case "set":
		if n < len(characterSets) {
			return characterSets[n].Content, true
		}
	}
	return "", false
}
