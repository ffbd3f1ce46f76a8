package generator

// audioPlayerHTML is the fixed background-music widget injected before the
// closing body tag of the home page.
const audioPlayerHTML = `
<div id="music-player" style="position: fixed; bottom: 20px; right: 20px; z-index: 100; display: flex; align-items: center; background: rgba(255,255,255,0.8); padding: 8px 15px; border-radius: 30px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); backdrop-filter: blur(5px); border: 1px solid rgba(255,255,255,0.5);">
  <button id="play-btn" onclick="toggleMusic()" style="background:none; border:none; cursor:pointer; font-size: 20px; color: #4a7c6f; margin-right:10px;">▶</button>
  <span style="font-size: 12px; color: #555; font-family: sans-serif;">天空之城</span>
  <audio id="bgm" loop>
    <source src="bgm.mp3" type="audio/mpeg">
  </audio>
</div>
<script>
  const audio = document.getElementById('bgm');
  const btn = document.getElementById('play-btn');

  audio.volume = 0.4;
  const p = audio.play();
  if (p !== undefined) {
    p.then(() => { btn.innerText = '⏸'; })
     .catch(() => { btn.innerText = '▶'; }); // Autoplay blocked
  }

  function toggleMusic() {
    if (audio.paused) {
      audio.play();
      btn.innerText = '⏸';
    } else {
      audio.pause();
      btn.innerText = '▶';
    }
  }
</script>
</body>`
