package mp

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// descendant 深度优先查找第一个标签名为 name 的子孙元素（不含 node 自身）
func descendant(node *etree.Element, name string) *etree.Element {
	for _, child := range node.ChildElements() {
		if child.Tag == name {
			return child
		}
		if found := descendant(child, name); found != nil {
			return found
		}
	}
	return nil
}

// descendants 按文档顺序返回所有标签名为 name 的子孙元素
func descendants(node *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range node.ChildElements() {
		if child.Tag == name {
			out = append(out, child)
		}
		out = append(out, descendants(child, name)...)
	}
	return out
}

func findTag(node *etree.Element, name string) (*etree.Element, error) {
	el := descendant(node, name)
	if el == nil {
		return nil, &FieldError{Field: name, Kind: FieldMissing}
	}
	return el, nil
}

// text 读取字段文本，CDATA 与普通文本对调用方无差别
func text(node *etree.Element, name string) (string, error) {
	el, err := findTag(node, name)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(el.Text())
	if s == "" {
		return "", &FieldError{Field: name, Kind: FieldEmpty}
	}
	return s, nil
}

// optionalText 字段缺失或为空时 ok 为 false
func optionalText(node *etree.Element, name string) (string, bool) {
	el := descendant(node, name)
	if el == nil {
		return "", false
	}
	s := strings.TrimSpace(el.Text())
	return s, s != ""
}

func uintField(node *etree.Element, name string, bitSize int) (uint64, error) {
	s, err := text(node, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, bitSize)
	if err != nil {
		return 0, &FieldError{Field: name, Kind: FieldNotNumeric}
	}
	return v, nil
}

func intField(node *etree.Element, name string, bitSize int) (int64, error) {
	s, err := text(node, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		return 0, &FieldError{Field: name, Kind: FieldNotNumeric}
	}
	return v, nil
}

func floatField(node *etree.Element, name string) (float64, error) {
	s, err := text(node, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Field: name, Kind: FieldNotNumeric}
	}
	return v, nil
}

// elementText 读取元素自身文本，用于重复出现的列表项
func elementText(el *etree.Element) (string, error) {
	s := strings.TrimSpace(el.Text())
	if s == "" {
		return "", &FieldError{Field: el.Tag, Kind: FieldEmpty}
	}
	return s, nil
}

func elementInt(el *etree.Element) (int, error) {
	s, err := elementText(el)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: el.Tag, Kind: FieldNotNumeric}
	}
	return v, nil
}

// invalidXMLChar 返回 s 中第一个 XML 1.0 不允许出现的字符，非法 UTF-8 按 U+FFFD 报告
func invalidXMLChar(s string) (rune, bool) {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return r, true
			}
			continue
		}
		if !isXMLChar(r) {
			return r, true
		}
	}
	return 0, false
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
