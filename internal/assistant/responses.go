package assistant

import (
	"fmt"
	"strings"
)

const (
	replyBestsellers    = "Aqui estão nossos bestsellers:"
	replyNonBestsellers = "Aqui estão alguns livros menos conhecidos mas interessantes:"
	replyAdvanced       = "Não entendi exatamente o pedido, mas com base no que você escreveu, estas leituras podem interessar:"

	replyPartial = "Entendi parcialmente sua pergunta, mas preciso de mais detalhes. " +
		"Você pode me perguntar sobre livros por gênero, autor, ano, " +
		"seu estado emocional, ou pedir recomendações baseadas em livros que você gostou. " +
		"Por exemplo: 'Estou triste, preciso de algo que me anime' ou 'Vou viajar, que livro levar?'"

	replyNotUnderstood = "Desculpe, não entendi sua pergunta. Você pode tentar perguntar de outra forma? " +
		"Exemplos do que posso ajudar:\n" +
		"• 'Gosto de livros de terror'\n" +
		"• 'Me mostre livros do Stephen King'\n" +
		"• 'Estou me sentindo triste hoje'\n" +
		"• 'Vou viajar, que livro você recomenda?'\n" +
		"• 'Li Inferno e gostei, que outros você sugere?'"
)

var moodReplies = map[string]string{
	"triste":     "Entendo que você está se sentindo triste. Aqui estão alguns livros que podem te ajudar a se sentir melhor:",
	"deprimido":  "Sei que momentos difíceis passam. Estes livros podem trazer um pouco de luz:",
	"estressado": "Para relaxar e esquecer o estresse, recomendo estas leituras:",
	"ansioso":    "Para acalmar a mente, aqui estão algumas sugestões reconfortantes:",
	"feliz":      "Que bom que você está feliz! Vamos manter esse astral com estas leituras:",
	"animado":    "Adorei seu entusiasmo! Aqui estão livros emocionantes para você:",
}

var occasionReplies = map[string]string{
	"viajar":   "Perfeito para sua viagem! Aqui estão livros que vão tornar o trajeto mais interessante:",
	"viagem":   "Perfeito para sua viagem! Aqui estão livros que vão tornar o trajeto mais interessante:",
	"praia":    "Ótima escolha para relaxar na praia! Estas leituras são perfeitas para o sol e mar:",
	"férias":   "Férias merecem boas leituras! Aqui estão sugestões para aproveitar seu tempo livre:",
	"trabalho": "Para ler nos intervalos do trabalho, aqui estão algumas opções:",
	"dormir":   "Para uma leitura relaxante antes de dormir:",
	"avião":    "Para tornar o voo mais agradável, recomendo:",
}

func genreReply(genre string, found bool) string {
	if found {
		return fmt.Sprintf("Aqui estão algumas recomendações de livros de %s:", genre)
	}
	return fmt.Sprintf("Desculpe, não encontrei livros do gênero %s em nossa base de dados.", genre)
}

func authorReply(author string, found bool) string {
	if found {
		return fmt.Sprintf("Aqui estão os livros de %s que temos:", author)
	}
	return fmt.Sprintf("Desculpe, não encontrei livros do autor %s em nossa base de dados.", author)
}

func similarReply(title string, found bool) string {
	if found {
		return fmt.Sprintf("Baseado no seu gosto por '%s', recomendo estes livros:", title)
	}
	return fmt.Sprintf("Desculpe, não encontrei o livro '%s' ou livros similares.", title)
}

func yearReply(year int, found bool) string {
	if found {
		return fmt.Sprintf("Aqui estão os livros de %d que temos:", year)
	}
	return fmt.Sprintf("Desculpe, não encontrei livros do ano %d.", year)
}

func moodReply(mood string, found bool) string {
	if !found {
		return "Desculpe, não encontrei livros adequados para o seu estado atual. Que tal tentar 'livros de romance' ou 'bestsellers'?"
	}
	if r, ok := moodReplies[strings.ToLower(mood)]; ok {
		return r
	}
	return fmt.Sprintf("Baseado no seu estado '%s', aqui estão algumas sugestões que podem te interessar:", mood)
}

func occasionReply(occasion string, found bool) string {
	if !found {
		return fmt.Sprintf("Desculpe, não encontrei livros adequados para '%s'. Que tal tentar uma busca mais específica?", occasion)
	}
	if r, ok := occasionReplies[strings.ToLower(occasion)]; ok {
		return r
	}
	return fmt.Sprintf("Para a ocasião '%s', aqui estão minhas sugestões:", occasion)
}

// unknownReply picks the softer text when part of the message was
// understood.
func unknownReply(partial bool) string {
	if partial {
		return replyPartial
	}
	return replyNotUnderstood
}
