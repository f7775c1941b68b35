package usecase

// The search heuristics are dictionary-driven: maps from term to related
// terms, loaded once at package init. Matching always happens on
// accent-folded text, so keys are stored in normalized form while
// replacement values keep their display spelling.

// semanticContexts maps a situational context to the terms it implies.
var semanticContexts = map[string][]string{
	// situations
	"cafe da manha": {"leite", "pao", "manteiga", "cafe", "cereal", "iogurte", "fruta"},
	"almoco":        {"arroz", "feijao", "carne", "verdura", "legume", "salada"},
	"jantar":        {"sopa", "pao", "queijo", "embutido", "lanche"},
	"churrasco":     {"carne", "linguica", "cerveja", "carvao", "sal grosso"},
	"festa":         {"refrigerante", "salgadinho", "doce", "cerveja", "guarana"},
	"dieta":         {"light", "zero", "integral", "organico", "natural"},
	"bebe":          {"fralda", "leite po", "papinha", "shampoo bebe"},

	// special occasions
	"natal":        {"peru", "chester", "panetone", "champagne", "nozes"},
	"pascoa":       {"chocolate", "ovos", "bacalhau", "colomba"},
	"festa junina": {"milho", "amendoim", "quentao", "pipoca"},

	// meal types
	"lanche":    {"biscoito", "bolacha", "chocolate", "suco", "sanduiche"},
	"sobremesa": {"sorvete", "pudim", "chocolate", "doce", "fruta"},

	// dietary needs
	"diabetico":   {"diet", "sem acucar", "adocante", "integral"},
	"vegano":      {"vegetal", "soja", "quinoa", "amaranto", "castanha"},
	"vegetariano": {"verdura", "legume", "queijo", "ovo", "leite"},

	// household cleaning by room
	"cozinha":  {"detergente", "esponja", "pano", "desengordurante"},
	"banheiro": {"desinfetante", "papel higienico", "sabonete"},
	"roupa":    {"sabao po", "amaciante", "alvejante"},
}

// recipeIngredients maps a recipe name to its shopping-list ingredients.
var recipeIngredients = map[string][]string{
	"bolo":       {"farinha", "ovo", "acucar", "leite", "fermento"},
	"brigadeiro": {"leite condensado", "chocolate po", "manteiga", "granulado"},
	"feijoada":   {"feijao preto", "linguica", "bacon", "carne seca"},
	"lasanha":    {"massa lasanha", "queijo", "molho tomate", "carne moida"},
	"pao":        {"farinha", "fermento", "sal", "agua", "oleo"},
	"pizza":      {"farinha", "queijo", "molho tomate", "calabresa"},
	"salada":     {"alface", "tomate", "cebola", "azeite", "vinagre"},
	"sopa":       {"legume", "carne", "caldo", "batata", "cenoura"},
}

// spellingCorrections maps common misspellings and brand variants to their
// preferred spelling. Whole-word replacement only.
var spellingCorrections = map[string]string{
	"acucar":   "açúcar",
	"cafe":     "café",
	"pao":      "pão",
	"sabao":    "sabão",
	"macarrao": "macarrão",
	"feijao":   "feijão",
	"guarana":  "guaraná",
	"limao":    "limão",
	"mamao":    "mamão",
	"shampoo":  "xampu",
	"cocacola": "coca cola",
	"nestle":   "nestlé",
	"kibon":    "kibom",
}

// synonyms widens keyword extraction with common variants per term.
var synonyms = map[string][]string{
	// meats
	"carne":  {"carnes", "bovina", "frango", "picanha", "alcatra"},
	"carnes": {"carne", "bovina", "frango", "picanha"},
	"frango": {"ave", "peito", "carne branca"},
	"boi":    {"bovina", "carne vermelha"},
	"porco":  {"suina", "linguica", "bacon"},

	// drinks
	"refrigerante": {"refri", "soda", "coca", "pepsi", "guarana"},
	"suco":         {"vitamina", "bebida"},
	"cerveja":      {"chopp", "long neck"},
	"agua":         {"mineral"},

	// cleaning
	"detergente":   {"lava louca", "sabao liquido"},
	"sabao":        {"detergente", "limpeza"},
	"desinfetante": {"limpa tudo", "multiuso"},

	// personal care
	"shampoo": {"xampu", "cabelo"},
	"xampu":   {"shampoo", "cabelo"},
	"pasta":   {"creme dental"},

	// staples
	"arroz":    {"graos", "cereal"},
	"feijao":   {"graos"},
	"macarrao": {"massa", "espaguete"},

	// dairy
	"leite":   {"laticinios", "integral", "desnatado"},
	"queijo":  {"mussarela", "parmesao"},
	"iogurte": {"fermentado"},

	// general categories
	"comida":  {"alimento", "alimentacao"},
	"bebida":  {"liquido"},
	"limpeza": {"higienizacao"},
	"higiene": {"banho"},
}

// stopWords are connector words ignored during keyword extraction.
var stopWords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true,
	"com": true, "sem": true, "para": true, "por": true,
	"um": true, "uma": true, "uns": true, "umas": true,
	"o": true, "a": true, "os": true, "as": true, "e": true, "ou": true,
	"que": true, "kg": true, "ml": true, "g": true, "l": true,
}

// popularTerms seeds the trending table and backs autocomplete for inputs
// too short to search.
var popularTerms = []string{
	"arroz", "feijão", "carne", "frango", "leite",
	"refrigerante", "cerveja", "chocolate", "açúcar", "café",
}
