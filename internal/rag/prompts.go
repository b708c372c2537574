package rag

import "fmt"

// Persona and grounding rules for answer generation. The product surface
// is Portuguese, so every model-facing string stays in Portuguese.
const SystemInstruction = `Você é um assistente jurídico especializado em análise e extração de informações das Leis e documentos fornecidos no contexto (corpus).
Sua área de atuação é estritamente voltada para as Leis e documentos do Estado de Santa Catarina. Siga rigorosamente as seguintes regras:

1. **Fundamentação Exclusiva:** Baseie sua resposta SOMENTE e EXCLUSIVAMENTE nas informações contidas nos documentos jurídicos que lhe foram fornecidos como contexto.
2. **Citação Obrigatória:** Para cada informação ou trecho de lei utilizado, você DEVE citar a fonte (o nome do arquivo) que está no final da linha do contexto. As citações devem ser no formato: (NOME_DO_ARQUIVO).
3. **Transparência na Ausência:** Se a resposta para a pergunta do usuário não for encontrada no contexto, você DEVE responder de forma clara e cortês: "A informação solicitada não foi encontrada nos documentos jurídicos que compõem a base de dados (corpus legal)."
4. **Tratamento de Alterações (CRÍTICO):** Se o contexto incluir diferentes redações de um mesmo artigo ou a data de alteração, você DEVE listar *todas as redações* (ou a mais recente, se for muito longa) e **obrigatoriamente citar as leis que promoveram as alterações** (ex: Redação dada pela LC 789, de 2021). **Se nenhuma lei alteradora for citada no contexto para o artigo, use o ano de publicação da lei (que estará no cabeçalho) para confirmar que a redação apresentada é a vigente.**
5. **Formato Detalhado:** Enumere todos os objetivos, princípios e ações detalhadas encontrados no contexto.
6. **Evite Conhecimento Externo:** Não utilize qualquer conhecimento que não tenha sido extraído do contexto fornecido.`

const RefusalMessage = "A sua pergunta foi classificada como de conhecimento geral/não-jurídica. " +
	"Minha função é estritamente a consultoria de leis estaduais de Santa Catarina. " +
	"Por não possuir uma base de dados com fatos atuais ou informações não-jurídicas, " +
	"não posso fornecer a informação solicitada. Por favor, reformule sua pergunta para um tema legal."

const RetrievalErrorMessage = "Desculpe, ocorreu um erro ao buscar os documentos. Por favor, tente novamente."

func generationErrorMessage(err error) string {
	return fmt.Sprintf("Ocorreu um erro no processamento do Chat Gemini (Stream). Erro: %v", err)
}

func extractPrompt(userQuery string) string {
	return fmt.Sprintf(`ANALISE a seguinte pergunta do usuário e TENTE extrair o identificador único da lei ou decreto, INCLUINDO O ANO.
O formato de retorno DEVE ser EXATAMENTE um dos seguintes:
- Se a lei for complementar: LC_NUMERO_ANO (Ex: LC_656_2015)
- Se for lei ordinária/promulgada: LEI_NUMERO_ANO (Ex: LEI_16852_2015)
- Se for decreto: DECRETO_NUMERO_ANO (Ex: DECRETO_123_2023)

Se não for possível identificar o TIPO, NÚMERO E ANO, retorne SOMENTE a palavra: NULO.

PERGUNTA DO USUÁRIO: %s

INSTRUÇÃO: Retorne APENAS o ID ÚNICO COMPLETO (FORMATO_NUMERO_ANO) ou NULO, sem explicações ou pontuações.
ID ÚNICO:`, userQuery)
}

func rewritePrompt(historyBlock, userQuery string) string {
	return fmt.Sprintf(`Com base no HISTÓRICO da conversa abaixo, reescreva a ÚLTIMA PERGUNTA do usuário de forma completa, explícita e clara.
O objetivo da reescrita é criar uma ÚNICA frase que possa ser usada em um sistema de busca de documentos.
A frase reescrita DEVE ser autocontida e incluir o nome completo da lei ou decreto a que se refere (se aplicável), SEM AS CITAÇÕES EM PARÊNTESES.

EXEMPLO:
Histórico: [user]: Quais os objetivos da Lei 741? [assistant]: Os objetivos são...
Última Pergunta: E o artigo 5º?
FRASE REESCRITA ESPERADA: Qual o conteúdo do Artigo 5º da Lei Complementar Nº 741?

INSTRUÇÃO: Retorne APENAS a frase reescrita, sem explicações ou pontuações adicionais.

---
HISTÓRICO DA CONVERSA:
%s

ÚLTIMA PERGUNTA DO USUÁRIO: %s
---
FRASE REESCRITA:`, historyBlock, userQuery)
}

func classificationPrompt(contextualizedQuery string) string {
	return fmt.Sprintf(`CLASSIFIQUE a seguinte pergunta/frase em UMA ÚNICA palavra, escolhendo estritamente entre: JURIDICA ou NAO_JURIDICA.

JURIDICA: Se a pergunta for sobre leis, decretos, regulamentos, termos jurídicos, ou qualquer assunto relacionado à legislação de Santa Catarina.
NAO_JURIDICA: Se for sobre conhecimento geral (história, geografia, previsão do tempo, pessoas, etc.) ou assuntos não-legais.

PERGUNTA A SER CLASSIFICADA: %s`, contextualizedQuery)
}

func ragPrompt(contextText, userQuery string) string {
	return fmt.Sprintf(`CONTEXTO JURÍDICO (Leis de Santa Catarina - Inclui Leis Consolidadas com Alterações):
---
%s
---

PERGUNTA DO USUÁRIO (Responda a esta pergunta com o contexto acima, aplicando a Regra 4):
%s

INSTRUÇÃO ESPECIAL: Se a pergunta for sobre um Artigo de uma lei, detalhe todas as redações encontradas no contexto e cite as leis alteradoras.
Assegure-se de citar as fontes em sua resposta (ex: (LEI Nº 19.142.html)).`, contextText, userQuery)
}

func forcedSearchPrefix(searchKey string) string {
	return fmt.Sprintf("BUSCAR DETALHES DA LEI IDENTIFICADA COMO %s. Foco na Ementa, Artigo 1º e Objeto. ", searchKey)
}
