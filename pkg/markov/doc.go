/*
Package markov provides an in-memory toolkit for learning K-order Markov
chains over words or characters and using them in two ways: generating novel
text by random walk, and ranking likely next-word completions for a line
prefix.

Text is split by a Tokenizer (WordTokenizer or CharTokenizer) into integer
tokens interned by an Alphabet. A Model keyed by fixed-length contexts records
every observed successor, a Generator walks the model and renders tokens back
into readable text, and a Completer answers completion queries.
*/
package markov
