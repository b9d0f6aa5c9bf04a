package testsupport

import (
	"fmt"
	"strings"
)

// FFmpegScript returns a fake ffmpeg body. It reports steps progress lines in
// -progress key=value form on stderr, then copies fixture (when set) to the
// last argument, or writes a few placeholder bytes. A non-zero exitCode makes
// it leave a partial output and print a diagnostic before failing.
func FFmpegScript(fixture string, steps, exitCode int) string {
	var b strings.Builder
	b.WriteString("for last; do :; done\n")
	b.WriteString("echo \"  Duration: 00:00:04.00, start: 0.000000, bitrate: 128 kb/s\" 1>&2\n")
	for i := 1; i <= steps; i++ {
		fmt.Fprintf(&b, "echo \"out_time=00:00:%02d.000000\" 1>&2\necho \"progress=continue\" 1>&2\n", i)
	}
	if exitCode != 0 {
		b.WriteString("printf 'partial' > \"$last\"\n")
		b.WriteString("echo \"Error opening output: Invalid argument\" 1>&2\n")
		fmt.Fprintf(&b, "exit %d\n", exitCode)
		return b.String()
	}
	if fixture != "" {
		fmt.Fprintf(&b, "cp %q \"$last\"\n", fixture)
	} else {
		b.WriteString("printf 'merlin-video-bytes' > \"$last\"\n")
	}
	b.WriteString("echo \"progress=end\" 1>&2\nexit 0\n")
	return b.String()
}

// WhisperScript returns a fake recognizer body that prints stage markers and
// segment lines, then writes payload as <output_dir>/<audio base>.json.
// An empty payload writes nothing; a non-zero exitCode fails after the markers.
func WhisperScript(payload string, exitCode int) string {
	var b strings.Builder
	b.WriteString(`audio="$1"
outdir="."
while [ $# -gt 0 ]; do
  case "$1" in
    --output_dir) outdir="$2"; shift ;;
  esac
  shift
done
base=$(basename "$audio")
base="${base%.*}"
echo "Detecting language using up to the first 30 seconds. Use --language to specify the language"
echo "[00:00.000 --> 00:01.500]  Hello big world"
echo "[00:01.500 --> 00:03.000]  again"
`)
	if exitCode != 0 {
		b.WriteString("echo \"RuntimeError: model failed to load\" 1>&2\n")
		fmt.Fprintf(&b, "exit %d\n", exitCode)
		return b.String()
	}
	if payload != "" {
		b.WriteString("cat > \"$outdir/$base.json\" <<'MERLIN_JSON'\n")
		b.WriteString(payload)
		b.WriteString("\nMERLIN_JSON\n")
	}
	b.WriteString("exit 0\n")
	return b.String()
}

// FFprobeScript answers dimension and duration probes. Empty values make the
// corresponding probe fail.
func FFprobeScript(dimensions, duration string) string {
	return fmt.Sprintf(`case "$*" in
  *stream=width,height*)
    if [ -z %q ]; then echo "no video stream" 1>&2; exit 1; fi
    echo %q ;;
  *format=duration*)
    if [ -z %q ]; then echo "no duration" 1>&2; exit 1; fi
    echo %q ;;
esac
`, dimensions, dimensions, duration, duration)
}

// WhisperPayload is a small recognizer JSON document with two segments and
// five words, one of them blank.
const WhisperPayload = `{
  "text": "Hello big world again",
  "segments": [
    {"start": 0.0, "end": 1.5, "text": " Hello big world", "words": [
      {"word": " Hello", "start": 0.0, "end": 0.4, "probability": 0.91},
      {"word": " big", "start": 0.5, "end": 0.8, "probability": 0.87},
      {"word": " world", "start": 0.9, "end": 1.4}
    ]},
    {"start": 1.5, "end": 3.0, "text": " again", "words": [
      {"word": "  ", "start": 1.5, "end": 1.6, "probability": 0.5},
      {"word": " again", "start": 1.7, "end": 2.6, "probability": 0.99}
    ]}
  ],
  "language": "en"
}`
