/*
Package ngram provides an in-memory n-gram corpus model and a random-walk
text generator built on top of it.

A Model maps every window of N consecutive words seen in a corpus to the
words that followed it. Training treats the corpus as cyclic: after the last
token the first N tokens are fed through again, so every window the
generator can reach while sliding forward has at least one follower.

A Generator walks a Model from a random seed window, picking uniformly among
the stored followers at each step. Followers are kept as a multiset, so a
word that followed a window three times is three times as likely to be
chosen. The randomness source is supplied by the caller, which makes output
reproducible for a fixed seed.
*/
package ngram
