package ui

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/me/blogfront/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return humanize.Time(t)
	},
	"count": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"add": func(a, b int) int {
		return a + b
	},
	"truncate": truncate,
	"markdown": renderMarkdown,
	"joinTags": func(tags []string) string {
		return strings.Join(tags, ", ")
	},
	"roleBadgeColor": func(r model.Role) string {
		switch r {
		case model.RoleAdmin:
			return "bg-red-100 text-red-800"
		case model.RoleEditor:
			return "bg-indigo-100 text-indigo-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
	"primaryRole": func(u model.User) model.Role {
		switch {
		case u.IsAdmin():
			return model.RoleAdmin
		case u.IsEditor():
			return model.RoleEditor
		default:
			return model.RoleUser
		}
	},
	"assignableRoles": func() []model.Role {
		return []model.Role{model.RoleUser, model.RoleEditor, model.RoleAdmin}
	},
}

// truncate shortens s to at most n characters, cutting on a rune boundary.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// parseComponents adds the shared components to tmpl.
func parseComponents(tmpl *template.Template) error {
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			if _, err := tmpl.New(compName).Parse(compContent); err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}
	return nil
}

// renderTemplate renders a page inside the layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	if _, err = tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	if err := parseComponents(tmpl); err != nil {
		return err
	}

	return tmpl.Execute(w, data)
}

// renderPartial renders a single component without the layout.
func renderPartial(w io.Writer, name string, data map[string]any) error {
	if _, ok := templates["components/"+name]; !ok {
		return fmt.Errorf("component not found: %s", name)
	}

	tmpl := template.New("partial").Funcs(templateFuncs)
	if err := parseComponents(tmpl); err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://unpkg.com/htmx.org@1.9.10"></script>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        .htmx-indicator { display: none; }
        .htmx-request .htmx-indicator { display: inline-block; }
        .htmx-request.htmx-indicator { display: inline-block; }
    </style>
</head>
<body class="bg-gray-50 min-h-screen"{{if .EventsURL}} data-session-events="{{.EventsURL}}"{{end}}>
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">
                        BlogFront
                    </a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        <a href="/blog" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Blog
                        </a>
                        {{if .User}}
                        {{if .User.IsAdmin}}
                        <a href="/admin/dashboard" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Dashboard
                        </a>
                        <a href="/admin/blogs" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Posts
                        </a>
                        <a href="/admin/users" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Users
                        </a>
                        {{else if .User.IsEditor}}
                        <a href="/editor" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Dashboard
                        </a>
                        <a href="/editor/blogs" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            My Posts
                        </a>
                        {{end}}
                        {{end}}
                    </div>
                </div>
                <div class="flex items-center">
                    {{if .User}}
                    <span class="text-sm text-gray-500 mr-4">{{.User.Username}}</span>
                    <form action="/logout" method="POST">
                        <button type="submit" class="text-sm text-gray-500 hover:text-gray-700">Logout</button>
                    </form>
                    {{else}}
                    <a href="/login" class="text-sm text-indigo-600 hover:text-indigo-800">Sign in</a>
                    {{end}}
                </div>
            </div>
        </div>
    </nav>

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{if .Notice}}
        <div class="mx-4 mb-4 rounded-md bg-yellow-50 p-4 sm:mx-0">
            <div class="text-sm text-yellow-800">{{.Notice}}</div>
        </div>
        {{end}}
        {{template "content" .}}
    </main>
    {{if .EventsURL}}
    <script>
        (function () {
            const events = new EventSource(document.body.dataset.sessionEvents);
            events.addEventListener("redirect", function (e) {
                events.close();
                window.location.href = JSON.parse(e.data).location;
            });
        })();
    </script>
    {{end}}
</body>
</html>`,

	"components/pagination": `{{define "pagination"}}
{{if gt .Pages 1}}
<nav class="flex items-center justify-between border-t border-gray-200 px-4 py-3 sm:px-0">
    <p class="text-sm text-gray-700">Page {{add .Page 1}} of {{.Pages}} ({{count .Total}} posts)</p>
    <div class="flex space-x-2">
        {{if .HasPrev}}
        <a href="{{.Base}}page={{.PrevPage}}" class="px-3 py-1 border rounded text-sm text-gray-700 hover:bg-gray-50">Previous</a>
        {{end}}
        {{if .HasNext}}
        <a href="{{.Base}}page={{.NextPage}}" class="px-3 py-1 border rounded text-sm text-gray-700 hover:bg-gray-50">Next</a>
        {{end}}
    </div>
</nav>
{{end}}
{{end}}`,

	"components/post_card": `{{define "post_card"}}
<article class="bg-white shadow rounded-lg overflow-hidden">
    {{if .FeaturedImage}}
    <img src="{{.FeaturedImage}}" alt="" class="h-48 w-full object-cover">
    {{end}}
    <div class="p-6">
        <p class="text-xs text-gray-500">{{formatDate .CreatedAt}}{{if .Author}} · {{.Author}}{{end}}</p>
        <h2 class="mt-2 text-xl font-semibold text-gray-900">
            <a href="/blog/{{.Slug}}" class="hover:text-indigo-600">{{.Title}}</a>
        </h2>
        <p class="mt-2 text-sm text-gray-600">{{truncate .Excerpt 200}}</p>
        {{if .Tags}}
        <div class="mt-3 flex flex-wrap gap-2">
            {{range .Tags}}
            <a href="/blog?tag={{.}}" class="px-2 py-0.5 rounded-full bg-indigo-50 text-xs text-indigo-700">{{.}}</a>
            {{end}}
        </div>
        {{end}}
    </div>
</article>
{{end}}`,

	"components/stats": `{{define "stats"}}
<div id="stats" class="grid grid-cols-1 gap-5 sm:grid-cols-2 lg:grid-cols-4 mb-8"
     hx-get="{{.StatsURL}}" hx-trigger="every 30s" hx-swap="outerHTML">
    <div class="bg-white overflow-hidden shadow rounded-lg p-5">
        <dt class="text-sm font-medium text-gray-500">Total Posts</dt>
        <dd class="mt-1 text-3xl font-semibold text-gray-900">{{count .Stats.TotalPosts}}</dd>
    </div>
    <div class="bg-white overflow-hidden shadow rounded-lg p-5">
        <dt class="text-sm font-medium text-gray-500">Published</dt>
        <dd class="mt-1 text-3xl font-semibold text-green-600">{{count .Stats.PublishedPosts}}</dd>
    </div>
    <div class="bg-white overflow-hidden shadow rounded-lg p-5">
        <dt class="text-sm font-medium text-gray-500">Drafts</dt>
        <dd class="mt-1 text-3xl font-semibold text-yellow-600">{{count .Stats.DraftPosts}}</dd>
    </div>
    {{if .ShowUsers}}
    <div class="bg-white overflow-hidden shadow rounded-lg p-5">
        <dt class="text-sm font-medium text-gray-500">Users</dt>
        <dd class="mt-1 text-3xl font-semibold text-indigo-600">{{count .Stats.TotalUsers}}</dd>
    </div>
    {{end}}
</div>
{{end}}`,

	"components/recent_posts": `{{define "recent_posts"}}
<div class="bg-white shadow overflow-hidden sm:rounded-lg">
    <div class="px-4 py-5 sm:px-6 flex justify-between items-center">
        <h3 class="text-lg font-medium text-gray-900">Recent Posts</h3>
        <a href="{{.Base}}" class="text-sm text-indigo-600 hover:text-indigo-800">View all</a>
    </div>
    <ul class="divide-y divide-gray-200">
        {{range .Posts}}
        <li class="px-4 py-4 sm:px-6 flex justify-between">
            <div>
                <a href="{{$.Base}}/{{.ID}}/edit" class="text-sm font-medium text-gray-900 hover:text-indigo-600">{{.Title}}</a>
                <p class="text-xs text-gray-500">{{ago .CreatedAt}}</p>
            </div>
            {{if .Published}}
            <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-green-100 text-green-800">Published</span>
            {{else}}
            <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-yellow-100 text-yellow-800">Draft</span>
            {{end}}
        </li>
        {{else}}
        <li class="px-4 py-8 text-center text-gray-500">No posts yet</li>
        {{end}}
    </ul>
</div>
{{end}}`,

	"home": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-10 text-center">
        <h1 class="text-4xl font-extrabold text-gray-900">BlogFront</h1>
        <p class="mt-3 text-lg text-gray-500">Stories, notes and updates from our writers.</p>
    </div>
    <div class="grid grid-cols-1 gap-6 md:grid-cols-2 lg:grid-cols-3">
        {{range .Posts}}
        {{template "post_card" .}}
        {{else}}
        <p class="col-span-full text-center text-gray-500">Nothing has been published yet.</p>
        {{end}}
    </div>
    <div class="mt-8 text-center">
        <a href="/blog" class="text-indigo-600 hover:text-indigo-800 font-medium">Browse all posts</a>
    </div>
</div>
{{end}}`,

	"blog/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-6 flex flex-col sm:flex-row sm:items-center sm:justify-between gap-4">
        <h1 class="text-2xl font-semibold text-gray-900">
            {{if .Tag}}Posts tagged "{{.Tag}}"{{else if .Query}}Results for "{{.Query}}"{{else}}Blog{{end}}
        </h1>
        <form action="/blog" method="GET" class="flex">
            <input type="search" name="q" value="{{.Query}}" placeholder="Search posts"
                   class="border border-gray-300 rounded-l-md px-3 py-2 text-sm focus:outline-none focus:ring-indigo-500 focus:border-indigo-500">
            <button type="submit" class="px-4 py-2 rounded-r-md bg-indigo-600 text-white text-sm hover:bg-indigo-700">Search</button>
        </form>
    </div>
    <div class="grid grid-cols-1 gap-6 md:grid-cols-2 lg:grid-cols-3">
        {{range .Posts}}
        {{template "post_card" .}}
        {{else}}
        <p class="col-span-full text-center text-gray-500">No posts found.</p>
        {{end}}
    </div>
    <div class="mt-6">{{template "pagination" .Pagination}}</div>
</div>
{{end}}`,

	"blog/post": `{{define "content"}}
<article class="px-4 py-6 sm:px-0 max-w-3xl mx-auto">
    <a href="/blog" class="text-sm text-indigo-600 hover:text-indigo-800">&larr; All posts</a>
    <h1 class="mt-4 text-4xl font-extrabold text-gray-900">{{.Post.Title}}</h1>
    <p class="mt-2 text-sm text-gray-500">{{formatDate .Post.CreatedAt}}{{if .Post.Author}} · {{.Post.Author}}{{end}}</p>
    {{if .Post.FeaturedImage}}
    <img src="{{.Post.FeaturedImage}}" alt="" class="mt-6 w-full rounded-lg">
    {{end}}
    <div class="mt-8 space-y-4 text-gray-800 leading-relaxed">
        {{markdown .Post.Content}}
    </div>
    {{if .Post.Tags}}
    <div class="mt-8 flex flex-wrap gap-2">
        {{range .Post.Tags}}
        <a href="/blog?tag={{.}}" class="px-2 py-0.5 rounded-full bg-indigo-50 text-xs text-indigo-700">{{.}}</a>
        {{end}}
    </div>
    {{end}}
</article>
{{end}}`,

	"login": `{{define "content"}}
<div class="flex items-center justify-center py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">
                Sign in to BlogFront
            </h2>
        </div>
        {{if .Error}}
        <div class="rounded-md bg-red-50 p-4">
            <div class="text-sm text-red-700">{{.Error}}</div>
        </div>
        {{end}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <div class="rounded-md shadow-sm -space-y-px">
                <div>
                    <label for="username" class="sr-only">Username</label>
                    <input id="username" name="username" type="text" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-t-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Username">
                </div>
                <div>
                    <label for="password" class="sr-only">Password</label>
                    <input id="password" name="password" type="password" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-b-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Password">
                </div>
            </div>
            <div>
                <button type="submit"
                        class="group relative w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700 focus:outline-none focus:ring-2 focus:ring-offset-2 focus:ring-indigo-500">
                    Sign in
                </button>
            </div>
        </form>
    </div>
</div>
{{end}}`,

	"panel/dashboard": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-8">
        <h1 class="text-2xl font-semibold text-gray-900">{{.Heading}}</h1>
        <p class="mt-1 text-sm text-gray-500">Welcome back, {{.User.Username}}</p>
    </div>

    {{template "stats" .}}

    <div class="flex justify-end mb-4">
        <a href="{{.Base}}/new" class="px-4 py-2 rounded-md bg-indigo-600 text-white text-sm hover:bg-indigo-700">New Post</a>
    </div>

    {{template "recent_posts" .}}
</div>
{{end}}`,

	"posts/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-6 flex justify-between items-center">
        <h1 class="text-2xl font-semibold text-gray-900">Posts</h1>
        <a href="{{.Base}}/new" class="px-4 py-2 rounded-md bg-indigo-600 text-white text-sm hover:bg-indigo-700">New Post</a>
    </div>
    {{if .Error}}
    <div class="mb-4 rounded-md bg-red-50 p-4"><div class="text-sm text-red-700">{{.Error}}</div></div>
    {{end}}
    <form action="{{.Base}}" method="GET" class="mb-4 flex">
        <input type="search" name="q" value="{{.Query}}" placeholder="Search posts"
               class="border border-gray-300 rounded-l-md px-3 py-2 text-sm">
        <button type="submit" class="px-4 py-2 rounded-r-md border border-l-0 border-gray-300 text-sm text-gray-700 hover:bg-gray-50">Search</button>
    </form>
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Title</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Author</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Status</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Updated</th>
                    <th class="px-6 py-3"></th>
                </tr>
            </thead>
            <tbody class="bg-white divide-y divide-gray-200">
                {{range .Posts}}
                <tr>
                    <td class="px-6 py-4 text-sm font-medium text-gray-900">{{.Title}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Author}}</td>
                    <td class="px-6 py-4 text-sm">
                        {{if .Published}}
                        <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-green-100 text-green-800">Published</span>
                        {{else}}
                        <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full bg-yellow-100 text-yellow-800">Draft</span>
                        {{end}}
                    </td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{ago .UpdatedAt}}</td>
                    <td class="px-6 py-4 text-right text-sm space-x-3 whitespace-nowrap">
                        {{if .Published}}
                        <a href="/blog/{{.Slug}}" class="text-gray-600 hover:text-gray-900">View</a>
                        {{else}}
                        <button hx-post="{{$.Base}}/{{.ID}}/publish" class="text-green-600 hover:text-green-900">Publish</button>
                        {{end}}
                        <a href="{{$.Base}}/{{.ID}}/edit" class="text-indigo-600 hover:text-indigo-900">Edit</a>
                        <button hx-delete="{{$.Base}}/{{.ID}}" hx-confirm="Delete this post?"
                                hx-target="closest tr" hx-swap="outerHTML"
                                class="text-red-600 hover:text-red-900">Delete</button>
                    </td>
                </tr>
                {{else}}
                <tr><td colspan="5" class="px-6 py-8 text-center text-gray-500">No posts</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
    <div class="mt-6">{{template "pagination" .Pagination}}</div>
</div>
{{end}}`,

	"posts/form": `{{define "content"}}
<div class="px-4 py-6 sm:px-0 max-w-3xl">
    <h1 class="mb-6 text-2xl font-semibold text-gray-900">{{if .Post.ID}}Edit Post{{else}}New Post{{end}}</h1>
    {{if .Error}}
    <div class="mb-4 rounded-md bg-red-50 p-4"><div class="text-sm text-red-700">{{.Error}}</div></div>
    {{end}}
    <form action="{{.Action}}" method="POST" class="space-y-6 bg-white shadow rounded-lg p-6">
        <div>
            <label for="title" class="block text-sm font-medium text-gray-700">Title</label>
            <input id="title" name="title" type="text" value="{{.Post.Title}}" required
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div>
            <label for="excerpt" class="block text-sm font-medium text-gray-700">Excerpt</label>
            <textarea id="excerpt" name="excerpt" rows="2"
                      class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">{{.Post.Excerpt}}</textarea>
        </div>
        <div>
            <label for="content" class="block text-sm font-medium text-gray-700">Content</label>
            <textarea id="content" name="content" rows="14" required
                      class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm font-mono">{{.Post.Content}}</textarea>
        </div>
        <div>
            <label for="featuredImage" class="block text-sm font-medium text-gray-700">Featured image URL</label>
            <input id="featuredImage" name="featuredImage" type="url" value="{{.Post.FeaturedImage}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div>
            <label for="tags" class="block text-sm font-medium text-gray-700">Tags (comma separated)</label>
            <input id="tags" name="tags" type="text" value="{{joinTags .Post.Tags}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div class="flex items-center">
            <input id="published" name="published" type="checkbox" value="true" {{if .Post.Published}}checked{{end}}
                   class="h-4 w-4 text-indigo-600 border-gray-300 rounded">
            <label for="published" class="ml-2 block text-sm text-gray-700">Published</label>
        </div>
        <div class="flex justify-end space-x-3">
            <a href="{{.Base}}" class="px-4 py-2 border border-gray-300 rounded-md text-sm text-gray-700 hover:bg-gray-50">Cancel</a>
            <button type="submit" class="px-4 py-2 rounded-md bg-indigo-600 text-white text-sm hover:bg-indigo-700">Save</button>
        </div>
    </form>
</div>
{{end}}`,

	"users/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="mb-6 text-2xl font-semibold text-gray-900">Users</h1>
    {{if .Error}}
    <div class="mb-4 rounded-md bg-red-50 p-4"><div class="text-sm text-red-700">{{.Error}}</div></div>
    {{end}}
    <div class="bg-white shadow overflow-hidden sm:rounded-lg mb-8">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Username</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Email</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Role</th>
                    <th class="px-6 py-3"></th>
                </tr>
            </thead>
            <tbody class="bg-white divide-y divide-gray-200">
                {{range .Users}}
                {{$role := primaryRole .}}
                <tr>
                    <td class="px-6 py-4 text-sm font-medium text-gray-900">{{.Username}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Email}}</td>
                    <td class="px-6 py-4 text-sm">
                        {{if eq .ID $.User.ID}}
                        <span class="px-2 inline-flex text-xs leading-5 font-semibold rounded-full {{roleBadgeColor $role}}">{{$role}}</span>
                        {{else}}
                        <form action="/admin/users/{{.ID}}/role" method="POST" class="flex items-center space-x-2">
                            <select name="role" class="border border-gray-300 rounded-md px-2 py-1 text-sm">
                                {{range assignableRoles}}
                                <option value="{{.}}" {{if eq . $role}}selected{{end}}>{{.}}</option>
                                {{end}}
                            </select>
                            <button type="submit" class="text-indigo-600 hover:text-indigo-900 text-sm">Save</button>
                        </form>
                        {{end}}
                    </td>
                    <td class="px-6 py-4 text-right text-sm">
                        {{if ne .ID $.User.ID}}
                        <button hx-delete="/admin/users/{{.ID}}" hx-confirm="Delete this user?"
                                hx-target="closest tr" hx-swap="outerHTML"
                                class="text-red-600 hover:text-red-900">Delete</button>
                        {{end}}
                    </td>
                </tr>
                {{else}}
                <tr><td colspan="4" class="px-6 py-8 text-center text-gray-500">No users</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>

    <div class="bg-white shadow sm:rounded-lg p-6 max-w-xl">
        <h2 class="text-lg font-medium text-gray-900 mb-4">Create User</h2>
        <form action="/admin/users" method="POST" class="space-y-4">
            <input name="username" type="text" placeholder="Username" required class="block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
            <input name="email" type="email" placeholder="Email" required class="block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
            <input name="password" type="password" placeholder="Password" required class="block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
            <select name="role" class="block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
                {{range assignableRoles}}
                <option value="{{.}}">{{.}}</option>
                {{end}}
            </select>
            <button type="submit" class="px-4 py-2 rounded-md bg-indigo-600 text-white text-sm hover:bg-indigo-700">Create</button>
        </form>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="px-4 py-16 sm:px-0 text-center">
    <p class="text-sm font-semibold text-indigo-600">{{.Status}}</p>
    <h1 class="mt-2 text-3xl font-bold text-gray-900">{{.Message}}</h1>
    <div class="mt-6">
        <a href="{{if .Home}}{{.Home}}{{else}}/{{end}}" class="text-indigo-600 hover:text-indigo-800">Go back home</a>
    </div>
</div>
{{end}}`,
}
