package site

// layoutTemplate holds the shared page chrome. The sidebar never marks a
// link active itself; that is left to the enhancer.
const layoutTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.DocTitle}}</title>
    <link rel="stylesheet" href="css/style.css">
</head>
<body>
    <nav class="sidebar">
        <div class="sidebar-header">
            <h1>{{.Manual}}</h1>
        </div>
        <ul class="nav-list">
            <li class="nav-item">
                <a class="nav-link" href="index.html">Home</a>
            </li>
{{- range .Pages}}
            <li class="nav-item">
                <a class="nav-link" href="{{.Filename}}">{{.Title}}</a>
            </li>
{{- end}}
        </ul>
    </nav>
{{end}}
{{define "foot"}}    <script src="js/script.js"></script>
</body>
</html>
{{end}}`

const indexTemplate = `{{template "head" .}}    <main class="content">
        <h1>{{.Manual}}</h1>
{{- if .Author}}
        <p class="author">By {{.Author}}</p>
{{- end}}
        <div id="toc"></div>
        <p>Welcome to the {{.Manual}}. This manual provides comprehensive documentation generated from markdown files.</p>
        <h2 id="contents">Contents</h2>
        <ul>
{{- range .Pages}}
            <li><a href="{{.Filename}}">{{.Title}}</a></li>
{{- end}}
        </ul>
    </main>
{{template "foot" .}}`

const pageTemplate = `{{template "head" .}}    <main class="content">
        <h1>{{.Page.Title}}</h1>
        <div id="toc"></div>
{{.Content}}
    </main>
{{template "foot" .}}`

const cssContent = `:root {
    --sidebar-width: 260px;
    --accent: #2563eb;
    --text: #1f2937;
    --muted: #6b7280;
    --border: #e5e7eb;
    --code-bg: #f6f8fa;
}

* { box-sizing: border-box; }

body {
    margin: 0;
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    color: var(--text);
    line-height: 1.6;
}

.sidebar {
    position: fixed;
    top: 0;
    bottom: 0;
    left: 0;
    width: var(--sidebar-width);
    overflow-y: auto;
    border-right: 1px solid var(--border);
    background: #fafafa;
}

.sidebar-header {
    padding: 1rem 1.25rem;
    border-bottom: 1px solid var(--border);
}

.sidebar-header h1 {
    margin: 0;
    font-size: 1.1rem;
}

.nav-list {
    list-style: none;
    margin: 0;
    padding: 0.5rem 0;
}

.nav-link {
    display: block;
    padding: 0.35rem 1.25rem;
    color: var(--text);
    text-decoration: none;
}

.nav-link:hover { background: #f0f0f0; }

.nav-link.active {
    color: var(--accent);
    font-weight: 600;
    border-left: 3px solid var(--accent);
}

.content {
    margin-left: var(--sidebar-width);
    max-width: 900px;
    padding: 2rem 3rem;
}

.author { color: var(--muted); }

#toc {
    margin: 1rem 0 2rem;
    padding: 0.75rem 1rem;
    border: 1px solid var(--border);
    border-radius: 6px;
}

#toc:empty { display: none; }

#toc h2 {
    margin: 0 0 0.5rem;
    font-size: 1rem;
}

.toc-list {
    list-style: none;
    margin: 0;
    padding: 0;
}

.toc-item a { text-decoration: none; color: var(--accent); }
.toc-h3 { padding-left: 1rem; }
.toc-h4 { padding-left: 2rem; }

pre {
    padding: 0.75rem 1rem;
    overflow-x: auto;
    background: var(--code-bg);
    border-radius: 6px;
}

code { font-family: SFMono-Regular, Consolas, monospace; font-size: 0.9em; }

table { border-collapse: collapse; }
th, td { padding: 0.4rem 0.75rem; border: 1px solid var(--border); }

@media (max-width: 800px) {
    .sidebar { position: static; width: auto; border-right: none; }
    .content { margin-left: 0; padding: 1rem; }
}
`

// jsContent is the in-browser enhancer for pages that were not pre-rendered.
// It reads the TOC settings from the container's data attributes and skips
// containers the build already filled or marked final.
const jsContent = `document.addEventListener('DOMContentLoaded', function() {
    // highlight the active page in navigation
    const currentPath = window.location.pathname;
    const currentPage = currentPath.split('/').pop();
    const navLinks = document.querySelectorAll('.nav-link');

    navLinks.forEach(link => {
        if (link.getAttribute('href') === currentPage) {
            link.classList.add('active');
        }
    });

    // generate table of contents if available
    const tocContainer = document.getElementById('toc');
    if (!tocContainer || tocContainer.dataset.rendered === 'true' || tocContainer.children.length > 0) {
        return;
    }

    const selector = tocContainer.dataset.headings || '.content h2, .content h3, .content h4';
    const skipMissing = tocContainer.dataset.missingIds === 'skip';
    const headings = Array.from(document.querySelectorAll(selector))
        .filter(heading => !skipMissing || heading.hasAttribute('id'));

    if (headings.length > 0) {
        const tocTitle = document.createElement('h2');
        tocTitle.textContent = tocContainer.dataset.title || 'Table of Contents';
        tocContainer.appendChild(tocTitle);

        const tocList = document.createElement('ul');
        tocList.classList.add('toc-list');

        headings.forEach(heading => {
            const listItem = document.createElement('li');
            listItem.classList.add('toc-item', ` + "`toc-${heading.tagName.toLowerCase()}`" + `);

            const link = document.createElement('a');
            link.textContent = heading.textContent;
            link.href = ` + "`#${heading.id}`" + `;

            listItem.appendChild(link);
            tocList.appendChild(listItem);
        });

        tocContainer.appendChild(tocList);
    }
});
`
