package live

// indexPage is the self-updating viewer: it renders the latest document
// snapshot inside an iframe and swaps it on every WebSocket message.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>shadowtree live</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; }
  header { padding: 6px 12px; background: #1a1a2e; color: #eee; font-size: 13px; }
  header .seq { color: #8be9a8; }
  iframe { border: 0; width: 100vw; height: calc(100vh - 30px); }
</style>
</head>
<body>
<header>shadowtree live &mdash; patch <span class="seq" id="seq">0</span></header>
<iframe id="view" src="/tree"></iframe>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    document.getElementById("seq").textContent = msg.seq;
    var doc = document.getElementById("view").contentDocument;
    doc.open();
    doc.write(msg.html);
    doc.close();
  };
  ws.onclose = function () {
    document.getElementById("seq").textContent = "disconnected";
  };
})();
</script>
</body>
</html>
`
