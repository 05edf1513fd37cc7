package quiz

// Sample returns the bundled question set used when a client starts a
// quiz without uploading a document.
func Sample() *QuizData {
	return &QuizData{Questions: []Question{
		{
			ID:            1,
			Question:      "What will this Python code output?\n\n```python\nfor i in range(3):\n    print(i * 2)\n```",
			CorrectAnswer: 2,
			Choices: []Choice{
				{ID: 1, Text: "0, 1, 2", Explanation: "This would be the output of `range(3)` without multiplication. The code multiplies each value by 2."},
				{ID: 2, Text: "0, 2, 4", Explanation: "Correct! The loop iterates through 0, 1, 2 and multiplies each by 2, giving 0, 2, 4."},
				{ID: 3, Text: "2, 4, 6", Explanation: "This would be correct if the range started at 1, but `range(3)` starts at 0."},
			},
		},
		{
			ID:            2,
			Question:      "In C++, what is the time complexity of inserting an element at the beginning of a `std::vector`?",
			CorrectAnswer: 2,
			Choices: []Choice{
				{ID: 1, Text: "O(1)", Explanation: "O(1) would be constant time, but inserting at the beginning requires shifting all existing elements."},
				{ID: 2, Text: "O(n)", Explanation: "Correct! Inserting at the beginning of a vector requires shifting all n existing elements, making it O(n)."},
				{ID: 3, Text: "O(log n)", Explanation: "O(log n) is typical for balanced tree operations, not vector insertions at the beginning."},
			},
		},
		{
			ID:            3,
			Question:      "What will this JavaScript code log to the console?\n\n```javascript\nlet arr = [1, 2, 3];\narr.push(arr.length);\nconsole.log(arr);\n```",
			CorrectAnswer: 1,
			Choices: []Choice{
				{ID: 1, Text: "[1, 2, 3, 3]", Explanation: "Correct! `arr.length` is 3 before the push operation, so 3 gets added to the array."},
				{ID: 2, Text: "[1, 2, 3, 4]", Explanation: "This would be true if we pushed `arr.length + 1`, but we're pushing the current length (3)."},
				{ID: 3, Text: "[1, 2, 3, [1, 2, 3]]", Explanation: "We're pushing `arr.length` (which is 3), not the array itself."},
			},
		},
		{
			ID:            4,
			Question:      "Which sorting algorithm has the best average-case time complexity?",
			CorrectAnswer: 2,
			Choices: []Choice{
				{ID: 1, Text: "Bubble Sort", Explanation: "Bubble Sort has O(n²) average-case complexity, which is quite poor for large datasets."},
				{ID: 2, Text: "Quick Sort", Explanation: "Correct! Quick Sort has O(n log n) average-case complexity, making it one of the most efficient general-purpose sorting algorithms."},
				{ID: 3, Text: "Selection Sort", Explanation: "Selection Sort has O(n²) complexity in all cases, making it inefficient for large datasets."},
			},
		},
		{
			ID:            5,
			Question:      "What will this Java code output?\n\n```java\nString s1 = \"Hello\";\nString s2 = \"Hello\";\nString s3 = new String(\"Hello\");\nSystem.out.println(s1 == s2);\nSystem.out.println(s1 == s3);\n```",
			CorrectAnswer: 1,
			Choices: []Choice{
				{ID: 1, Text: "true\\nfalse", Explanation: "Correct! String literals are interned, so s1 == s2 is true. But s3 is a new object, so s1 == s3 is false."},
				{ID: 2, Text: "false\\ntrue", Explanation: "This is backwards. String literals share references, but `new String()` creates a new object."},
				{ID: 3, Text: "true\\ntrue", Explanation: "While s1 == s2 is true due to string interning, s3 is a new object with a different reference."},
			},
		},
	}}
}
