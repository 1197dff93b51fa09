package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// TokenAlphabet — алфавит публичных токенов без визуально похожих
// символов (нет 0/O, 1/I/L): токен перепечатывают с наклейки руками.
const TokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TokenLength — длина генерируемого токена.
const TokenLength = 8

// TokenGenerator выдаёт случайные токены фиксированной длины.
// Уникальность не гарантирует — за коллизии отвечает вызывающий.
type TokenGenerator interface {
	NewToken() (string, error)
}

type nanoidGenerator struct{}

// NewTokenGenerator создаёт генератор на базе nanoid с фиксированным алфавитом.
func NewTokenGenerator() TokenGenerator {
	return nanoidGenerator{}
}

func (nanoidGenerator) NewToken() (string, error) {
	return gonanoid.Generate(TokenAlphabet, TokenLength)
}
