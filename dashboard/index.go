package dashboard

import "github.com/gofiber/fiber/v2"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Alembic</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 860px; margin: 40px auto; padding: 0 20px; color: #333; }
    h1 { color: #667eea; }
    form { display: flex; gap: 10px; margin: 20px 0; }
    input { flex: 1; padding: 10px; border: 1px solid #ddd; border-radius: 6px; }
    button { padding: 10px 20px; background: #667eea; color: white; border: none; border-radius: 6px; cursor: pointer; }
    button:disabled { opacity: 0.6; }
    pre { background: #f8f9fa; padding: 20px; border-radius: 6px; white-space: pre-wrap; }
    li { margin: 6px 0; }
  </style>
</head>
<body>
  <h1>Alembic</h1>
  <p>Run a research query or browse previous reports.</p>
  <form id="research-form">
    <input id="query" placeholder="Company or topic to research" required>
    <button id="go" type="submit">Research</button>
  </form>
  <pre id="output" hidden></pre>
  <h2>Previous reports</h2>
  <ul id="reports"></ul>
  <script>
    const form = document.getElementById('research-form');
    const output = document.getElementById('output');
    const go = document.getElementById('go');

    async function loadReports() {
      const res = await fetch('/v1/reports');
      const body = await res.json();
      const list = document.getElementById('reports');
      list.innerHTML = '';
      for (const report of body.reports) {
        const li = document.createElement('li');
        const a = document.createElement('a');
        a.href = '/v1/reports/' + report.id;
        a.textContent = report.query + ' (' + report.created_at + ')';
        li.appendChild(a);
        list.appendChild(li);
      }
    }

    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      go.disabled = true;
      output.hidden = false;
      output.textContent = 'Researching...';
      try {
        const res = await fetch('/v1/research', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({query: document.getElementById('query').value}),
        });
        const body = await res.json();
        output.textContent = res.ok ? body.report : body.error;
      } catch (err) {
        output.textContent = String(err);
      } finally {
        go.disabled = false;
        loadReports();
      }
    });

    loadReports();
  </script>
</body>
</html>
`

// handleIndex serves the single-page dashboard UI.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(indexHTML)
}
