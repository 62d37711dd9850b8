// Package engine applies the rule population to file content and emits
// raw pattern matches with resolved line numbers.
package engine

import (
	"path/filepath"
	"strings"
)

var languageByExtension = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".rs":    "rust",
	".swift": "swift",
	".scala": "scala",
	".sol":   "solidity",
	".vy":    "vyper",
	".sh":    "shell",
	".bash":  "shell",
	".ps1":   "powershell",
	".sql":   "sql",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".tf":    "terraform",
	".html":  "html",
	".vue":   "javascript",
	".md":    "markdown",
	".txt":   "text",
}

// DetectLanguage prefers the language declared by file discovery and
// falls back to the path extension.
func DetectLanguage(path string, declared string) string {
	if lang := strings.ToLower(strings.TrimSpace(declared)); lang != "" {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return ""
}

type frameworkMarker struct {
	framework string
	marker    string
}

// Ordered content markers; the first match wins. Contract-language
// markers come before generic web-framework markers so a Solidity file
// that mentions a JS framework in a comment still classifies correctly.
var frameworkMarkers = []frameworkMarker{
	{"solidity", "pragma solidity"},
	{"anchor", "use anchor_lang"},
	{"django", "from django"},
	{"django", "import django"},
	{"flask", "from flask import"},
	{"fastapi", "from fastapi import"},
	{"rails", "< ApplicationController"},
	{"spring", "org.springframework"},
	{"laravel", "Illuminate\\"},
	{"nextjs", "from \"next/"},
	{"nextjs", "from 'next/"},
	{"express", "require('express')"},
	{"express", "require(\"express\")"},
	{"express", "from \"express\""},
	{"express", "from 'express'"},
	{"angular", "@angular/core"},
	{"react", "from \"react\""},
	{"react", "from 'react'"},
	{"vue", "from \"vue\""},
	{"vue", "from 'vue'"},
}

// DetectFramework scans content for at most one framework signature.
func DetectFramework(content string) string {
	if content == "" {
		return ""
	}
	for _, m := range frameworkMarkers {
		if strings.Contains(content, m.marker) {
			return m.framework
		}
	}
	return ""
}
