package mcpserver

// SharingGuide describes what a well-formed shared material looks like, for
// LLM consumers that add materials on a teacher's behalf.
const SharingGuide = `
# Hoken Material Sharing Guide

A material is a link to a teaching resource that lives somewhere else
(Google Slides, Docs, Sheets, a video, any web page). Hoken stores the link
and the information needed to find it again.

## Fields

| Field         | Required | Notes                                                   |
|---------------|----------|---------------------------------------------------------|
| title         | yes      | What a colleague would search for. Keep it specific.    |
| category_id   | yes      | One id from ` + "`list_categories`" + `. Categories are fixed. |
| url           | yes      | Absolute URL including scheme, e.g. ` + "`https://...`" + `.     |
| description   | no       | One or two sentences: grade level, duration, format.    |
| tags          | no       | Comma-separated. Order is kept; blanks are dropped.     |

## Recognised URL types

The file type is derived from the URL, first match wins:

1. ` + "`docs.google.com/.../presentation`" + ` or ` + "`slides.google.com`" + ` → Google Slides
2. ` + "`docs.google.com/.../document`" + ` → Google Docs
3. ` + "`docs.google.com/.../spreadsheets`" + ` → Google Sheets
4. ` + "`youtube.com`" + ` or ` + "`youtu.be`" + ` → YouTube Video
5. anything else → Web URL

## Rules

1. **Only URL materials.** File uploads are not implemented; share a link instead.
2. **Search is case-sensitive.** It matches substrings of title, description
   and tags exactly as typed, so put the words people will search for in the
   title or tags.
3. **There is no update.** To correct a material, delete it and add it again.
`
