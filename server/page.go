package server

// chatPage is a minimal browser client for trying the assistant without a
// separate frontend.
const chatPage = `<!DOCTYPE html>
<html>
<head>
<title>Sales Planning Assistant</title>
<style>
  body { font-family: sans-serif; max-width: 760px; margin: 2em auto; }
  #chat { height: 65vh; overflow: auto; border: 1px solid #ccc; padding: 1em; }
  .user { text-align: right; color: #1a4f8b; margin: 0.5em 0; }
  .assistant { color: #222; margin: 0.5em 0; }
  .tool { color: #666; font-size: 0.9em; margin: 0.5em 0 0.5em 1em; }
  .tool .title { font-weight: bold; }
  #input-area { display: flex; margin-top: 1em; }
  #msg { flex: 1; padding: 0.5em; }
  img { max-width: 100%; }
</style>
</head>
<body>
<h2>Sales Planning Assistant</h2>
<p><em>Plan your sales day and navigate client visits with AI assistance</em></p>
<div id="chat"></div>
<div id="input-area">
  <input id="msg" placeholder="Ask the assistant..." />
  <button onclick="send()">Send</button>
  <button onclick="resetChat()">Clear</button>
</div>
<script>
const sessionID = "browser-" + Math.random().toString(36).slice(2, 10);

function render(entries) {
  const chat = document.getElementById("chat");
  chat.innerHTML = "";
  for (const e of entries) {
    const div = document.createElement("div");
    const meta = e.metadata || {};
    if (meta.title) {
      div.className = "tool";
      const title = document.createElement("div");
      title.className = "title";
      title.textContent = meta.title;
      div.appendChild(title);
    } else {
      div.className = e.role === "user" ? "user" : "assistant";
    }
    const body = document.createElement("div");
    const imageMatch = e.content.match(/!\[([^\]]*)\]\(([^)]+)\)/);
    if (imageMatch) {
      const img = document.createElement("img");
      img.src = imageMatch[2];
      img.alt = imageMatch[1];
      body.appendChild(img);
    } else {
      body.textContent = e.content;
    }
    div.appendChild(body);
    chat.appendChild(div);
  }
  chat.scrollTop = chat.scrollHeight;
}

async function send() {
  const input = document.getElementById("msg");
  const message = input.value;
  input.value = "";
  const resp = await fetch("/api/v1/chat/" + sessionID, {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ message }),
  });
  const reader = resp.body.getReader();
  const decoder = new TextDecoder();
  let buffer = "";
  for (;;) {
    const { done, value } = await reader.read();
    if (done) break;
    buffer += decoder.decode(value, { stream: true });
    const frames = buffer.split("\n\n");
    buffer = frames.pop();
    for (const frame of frames) {
      const dataLine = frame.split("\n").find((l) => l.startsWith("data:"));
      if (!dataLine) continue;
      try {
        render(JSON.parse(dataLine.slice(5)));
      } catch (err) { /* done frame */ }
    }
  }
}

async function resetChat() {
  await fetch("/api/v1/chat/reset/" + sessionID, { method: "POST" });
  document.getElementById("chat").innerHTML = "";
}

document.getElementById("msg").addEventListener("keydown", (e) => {
  if (e.key === "Enter") send();
});
</script>
</body>
</html>`
