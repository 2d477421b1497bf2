// Copyright 2025 Alan Matykiewicz
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"os"

	"github.com/goccy/go-yaml"
)

type serverConfig struct {
	ListenHost string `yaml:"listen_host"`
	ListenPort int    `yaml:"listen_port"`
	UploadDir  string `yaml:"upload_dir"`
}

type providersConfig struct {
	LM       string `yaml:"lm"`
	Embedder string `yaml:"embedder"`
	Rerank   bool   `yaml:"rerank"`
}

type qdrantConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type sessionsConfig struct {
	// Backend selects the session store, "memory" or "redis".
	Backend string `yaml:"backend"`
	// TTLMinutes is how long an idle session survives.
	TTLMinutes int `yaml:"ttl_minutes"`

	Redis redisConfig `yaml:"redis"`
}

type config struct {
	Server    serverConfig    `yaml:"server"`
	Providers providersConfig `yaml:"providers"`

	VectorStore qdrantConfig   `yaml:"vector_store"`
	Sessions    sessionsConfig `yaml:"sessions"`
}

func defaultConfig() *config {
	return &config{
		Server: serverConfig{
			ListenPort: 8080,
			UploadDir:  "pdfs",
		},
		Providers: providersConfig{
			LM:       "groq",
			Embedder: "gemini",
		},
		VectorStore: qdrantConfig{
			Host: "localhost",
			Port: 6334,
		},
		Sessions: sessionsConfig{
			Backend:    "memory",
			TTLMinutes: 30,
			Redis: redisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}

func ReadConfig(path string) (*config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	conf := defaultConfig()
	if err := yaml.Unmarshal(file, conf); err != nil {
		return nil, err
	}

	return conf, nil
}
