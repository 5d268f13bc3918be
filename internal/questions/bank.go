// Package questions loads the prompt files and serves random draws.
//
// Every *.txt file in the data directory is one category, one prompt per
// line, named after the file: truth_boy.txt, dare_girl.txt and so on.
package questions

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/valyala/fastrand"
)

var ErrEmptyBank = fmt.Errorf("question bank is empty")

// drawRetries bounds how long we insist on a prompt different from the
// excluded one. After that, repetition is tolerated.
const drawRetries = 6

type Bank struct {
	mtx        sync.RWMutex
	categories map[string][]string
}

// Load reads every category file under dir. A missing directory yields an
// empty bank, not an error: the operator fills the files out-of-band.
func Load(dir string) (*Bank, error) {
	bank := &Bank{categories: map[string][]string{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return bank, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		category := strings.TrimSuffix(entry.Name(), ".txt")
		prompts, err := readPrompts(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", category, err)
		}

		bank.categories[category] = prompts
	}

	return bank, nil
}

func readPrompts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return prompts, nil
}

// Categories lists the loaded category ids in stable order.
func (b *Bank) Categories() []string {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	list := make([]string, 0, len(b.categories))
	for category := range b.categories {
		list = append(list, category)
	}
	sort.Strings(list)

	return list
}

// Has reports whether the category exists and is non-empty.
func (b *Bank) Has(category string) bool {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return len(b.categories[category]) > 0
}

// Draw returns a random prompt from the category. When excluding is
// non-empty and the category holds more than one prompt, it re-draws a
// bounded number of times to avoid an immediate repeat.
func (b *Bank) Draw(category, excluding string) (string, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	prompts := b.categories[category]
	if len(prompts) == 0 {
		return "", ErrEmptyBank
	}

	prompt := prompts[fastrand.Uint32n(uint32(len(prompts)))]
	if excluding == "" || len(prompts) == 1 {
		return prompt, nil
	}

	for i := 0; i < drawRetries && prompt == excluding; i++ {
		prompt = prompts[fastrand.Uint32n(uint32(len(prompts)))]
	}

	return prompt, nil
}
