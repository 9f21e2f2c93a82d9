package model

// PortugueseStopWords is a small, stable list of pt-BR stop words.
var PortugueseStopWords = []string{
	"a", "o", "os", "as", "de", "da", "do", "das", "dos", "e", "é", "em", "para", "por", "com", "sem",
	"um", "uma", "uns", "umas", "no", "na", "nos", "nas", "ao", "à", "aos", "às", "se", "que", "quem",
	"qual", "quais", "quando", "onde", "como", "porque", "porquê", "mas", "ou", "também", "muito",
	"muita", "muitos", "muitas", "pouco", "pouca", "poucos", "poucas", "ser", "ter", "estar", "vai",
	"vou", "foi", "era", "são", "sua", "seu", "suas", "seus", "ele", "ela", "eles", "elas", "você",
	"vocês", "nosso", "nossa", "nossos", "nossas", "meu", "minha", "meus", "minhas", "deve", "devem",
	"há", "haver", "entre", "sobre", "até", "após", "antes", "depois",
}
