package orchestrator

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

const (
	logNameLayout    = "20060102_150405"
	markerTimeLayout = "2006-01-02 15:04:05"
	separator        = "————————————————————————————————————————————————————————————————"
)

// logFilePath monta logs/<etapa>_<YYYYmmdd_HHMMSS>.log
func logFilePath(dir, step string, ts time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", step, ts.Format(logNameLayout)))
}

func startMarker(ts time.Time, step string) string {
	return fmt.Sprintf("\n===== %s :: START %s =====\n", ts.Format(markerTimeLayout), step)
}

func endMarker(rc int) string {
	return fmt.Sprintf("===== END (rc=%d) =====\n", rc)
}

func exceptionMarker(err error) string {
	return fmt.Sprintf("===== EXCEPTION: %v =====\n", err)
}

// tee copia a saída do filho linha a linha para o console e para o arquivo de log.
// Bytes que não são UTF-8 válido viram U+FFFD. Retorna o número de linhas copiadas.
func tee(r io.Reader, console, file io.Writer) (int, error) {
	br := bufio.NewReader(r)
	lines := 0

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines++
			line = strings.ToValidUTF8(line, "\uFFFD")

			if _, werr := io.WriteString(file, line); werr != nil {
				return lines, drain(br, werr)
			}
			if _, werr := io.WriteString(console, strings.TrimRight(line, "\r\n")+"\n"); werr != nil {
				return lines, drain(br, werr)
			}
		}

		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// drain consome o restante da saída para o filho não travar com o pipe cheio
func drain(r io.Reader, err error) error {
	_, _ = io.Copy(io.Discard, r)
	return err
}

// tailLines retorna as últimas n linhas do texto
func tailLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if n <= 0 || len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
